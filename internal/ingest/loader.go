package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/archigram/archigram/internal/model"
)

// Loader builds Conversations from transcript files. Transcript format
// is one statement per line, optionally prefixed with "speaker:".
// Empty lines and lines starting with # are skipped.
type Loader struct {
	ingestor *Ingestor
}

// NewLoader creates a loader that ingests every parsed line
func NewLoader(ingestor *Ingestor) *Loader {
	return &Loader{ingestor: ingestor}
}

// LoadFile reads a transcript file into a Conversation
func (l *Loader) LoadFile(path, conversationID string) (*model.Conversation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = file.Close() }()

	conv, err := l.Parse(file, conversationID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return conv, nil
}

// Parse reads a transcript from a reader into a Conversation. Statement
// order follows line order; timestamps are assigned monotonically so
// ordering survives serialization.
func (l *Loader) Parse(r io.Reader, conversationID string) (*model.Conversation, error) {
	conv := model.NewConversation(conversationID)
	base := time.Now().UTC()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		speaker, content := splitSpeaker(line)
		statement, err := l.ingestor.Ingest(content, speaker, base.Add(time.Duration(lineNo)*time.Millisecond), nil)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		conv.Append(statement)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	if len(conv.Statements) == 0 {
		return nil, fmt.Errorf("transcript contains no statements")
	}

	return conv, nil
}

// splitSpeaker splits "alice: we need search" into ("alice", "we need
// search"). A prefix only counts as a speaker when it is a single short
// token, so statements containing colons survive intact.
func splitSpeaker(line string) (speaker, content string) {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > 24 {
		return "", line
	}
	prefix := strings.TrimSpace(line[:idx])
	if prefix == "" || strings.ContainsAny(prefix, " \t") {
		return "", line
	}
	rest := strings.TrimSpace(line[idx+1:])
	if rest == "" {
		return "", line
	}
	return prefix, rest
}
