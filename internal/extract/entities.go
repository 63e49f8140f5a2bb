package extract

import (
	"sort"
	"strings"

	"github.com/archigram/archigram/internal/model"
)

// EntityExtractor pulls normalized domain entities out of statement
// text. Pure function of the input text: same content always yields the
// same entity set, which the stable-id property downstream depends on.
type EntityExtractor struct {
	vocabulary []string
}

// NewEntityExtractor creates an extractor for the configured profile
func NewEntityExtractor(cfg model.ExtractConfig) *EntityExtractor {
	vocab := ProfileVocabulary(cfg.Profile)
	for _, term := range cfg.ExtraVocabulary {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			vocab = append(vocab, term)
		}
	}
	return &EntityExtractor{vocabulary: vocab}
}

// Extract returns the lower-cased, deduplicated, sorted entity set for
// the given text.
func (e *EntityExtractor) Extract(text string) []string {
	lower := strings.ToLower(text)
	padded := " " + stripPunctuation(lower) + " "

	seen := make(map[string]bool)
	var entities []string
	add := func(entity string) {
		if !seen[entity] {
			seen[entity] = true
			entities = append(entities, entity)
		}
	}

	// Vocabulary terms, matched on word boundaries
	for _, term := range e.vocabulary {
		if strings.Contains(padded, " "+term+" ") {
			add(term)
		}
	}

	// Generic noun fallback: tokens introduced by an article or common
	// preposition that are not stopwords
	tokens := strings.Fields(stripPunctuation(lower))
	for i := 1; i < len(tokens); i++ {
		if !nounIntroducers[tokens[i-1]] {
			continue
		}
		token := tokens[i]
		if len(token) < 3 || stopwords[token] {
			continue
		}
		add(token)
	}

	sort.Strings(entities)
	return entities
}

// stripPunctuation replaces punctuation with spaces, keeping hyphens so
// terms like "real-time" survive as single tokens
func stripPunctuation(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			buf.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			buf.WriteRune(r)
		default:
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}

var nounIntroducers = map[string]bool{
	"a": true, "an": true, "the": true,
	"for": true, "of": true, "with": true, "via": true,
}

var stopwords = map[string]bool{
	"and": true, "that": true, "this": true, "those": true, "these": true,
	"all": true, "any": true, "our": true, "your": true, "their": true,
	"new": true, "each": true, "every": true, "some": true, "more": true,
	"very": true, "same": true, "other": true, "which": true, "what": true,
	"system": true, "feature": true, "features": true, "way": true,
	"thing": true, "things": true, "lot": true, "bit": true,
}
