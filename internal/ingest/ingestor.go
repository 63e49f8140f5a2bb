package ingest

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/model"
)

// Ingestor normalizes raw statement text into canonical Statements and
// stamps each one with its dominant type. Statements are immutable
// after this point.
type Ingestor struct {
	maxLength   int
	stripMarkup bool
	classifier  *classify.Classifier
}

// NewIngestor creates an ingestor from configuration
func NewIngestor(cfg model.IngestConfig) *Ingestor {
	maxLength := cfg.MaxStatementLength
	if maxLength <= 0 {
		maxLength = 10000
	}
	return &Ingestor{
		maxLength:   maxLength,
		stripMarkup: cfg.StripMarkup,
		classifier:  classify.NewClassifier(),
	}
}

// Ingest builds a canonical Statement from raw text and metadata.
// Returns MalformedStatementError when the normalized content is empty
// or exceeds the configured maximum length.
func (in *Ingestor) Ingest(content, speaker string, timestamp time.Time, context map[string]string) (model.Statement, error) {
	text := content
	if in.stripMarkup && looksLikeMarkup(text) {
		text = stripMarkup(text)
	}

	// Unicode NFKC so visually identical statements compare equal
	text = norm.NFKC.String(text)
	text = collapseWhitespace(text)

	if text == "" {
		return model.Statement{}, &model.MalformedStatementError{Reason: "content is empty"}
	}
	if len(text) > in.maxLength {
		return model.Statement{}, &model.MalformedStatementError{
			Reason: fmt.Sprintf("content exceeds %d characters", in.maxLength),
		}
	}

	if speaker == "" {
		speaker = "user"
	}
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	var ctx map[string]string
	if len(context) > 0 {
		ctx = make(map[string]string, len(context))
		for k, v := range context {
			ctx[k] = v
		}
	}

	return model.Statement{
		Content:   text,
		Speaker:   speaker,
		Timestamp: timestamp,
		Context:   ctx,
		Type:      in.classifier.DominantKind(text),
	}, nil
}

// looksLikeMarkup is a cheap check before paying for a full HTML parse
func looksLikeMarkup(text string) bool {
	open := strings.IndexByte(text, '<')
	return open >= 0 && strings.IndexByte(text[open:], '>') > 0
}

// stripMarkup extracts visible text from HTML-ish content, skipping
// scripts and styles. Falls back to the raw text if parsing fails.
func stripMarkup(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return buf.String()
}

// collapseWhitespace folds all runs of whitespace into single spaces
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
