package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/archigram/archigram/internal/model"
)

func TestIngestor_NormalizesWhitespace(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{})

	statement, err := ingestor.Ingest("We  need\n\t search   now", "", time.Time{}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if statement.Content != "We need search now" {
		t.Errorf("Expected collapsed whitespace, got %q", statement.Content)
	}
	if statement.Speaker != "user" {
		t.Errorf("Expected default speaker 'user', got %q", statement.Speaker)
	}
	if statement.Timestamp.IsZero() {
		t.Error("Expected a timestamp to be assigned")
	}
}

func TestIngestor_StampsType(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{})

	tests := []struct {
		content string
		want    model.StatementType
	}{
		{"Create a REST API for user management", model.StatementFunctional},
		{"It should be fast", model.StatementNonFunctional},
		{"We must not store payment data", model.StatementConstraint},
		{"Wow, that sounds great", model.StatementUnknown},
	}

	for _, tt := range tests {
		statement, err := ingestor.Ingest(tt.content, "", time.Now(), nil)
		if err != nil {
			t.Fatalf("Expected no error for %q, got %v", tt.content, err)
		}
		if statement.Type != tt.want {
			t.Errorf("Ingest(%q) type = %q, expected %q", tt.content, statement.Type, tt.want)
		}
	}
}

func TestIngestor_StripsMarkup(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{StripMarkup: true})

	statement, err := ingestor.Ingest("<p>We need <b>search</b></p><script>alert(1)</script>", "alice", time.Now(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if statement.Content != "We need search" {
		t.Errorf("Expected markup stripped, got %q", statement.Content)
	}
	if strings.Contains(statement.Content, "alert") {
		t.Error("Expected script content to be removed")
	}
}

func TestIngestor_MarkupDisabled(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{StripMarkup: false})

	statement, err := ingestor.Ingest("<p>keep the tags</p>", "", time.Now(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(statement.Content, "<p>") {
		t.Errorf("Expected tags preserved when stripping is off, got %q", statement.Content)
	}
}

func TestIngestor_RejectsEmpty(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{})

	_, err := ingestor.Ingest("   \n\t  ", "", time.Now(), nil)
	if err == nil {
		t.Fatal("Expected error for empty content")
	}

	var malformed *model.MalformedStatementError
	if !errors.As(err, &malformed) {
		t.Errorf("Expected MalformedStatementError, got %T", err)
	}
}

func TestIngestor_RejectsOversized(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{MaxStatementLength: 10})

	_, err := ingestor.Ingest("this statement is longer than ten characters", "", time.Now(), nil)
	if err == nil {
		t.Fatal("Expected error for oversized content")
	}

	var malformed *model.MalformedStatementError
	if !errors.As(err, &malformed) {
		t.Errorf("Expected MalformedStatementError, got %T", err)
	}
}

func TestIngestor_CopiesContext(t *testing.T) {
	ingestor := NewIngestor(model.IngestConfig{})

	ctx := map[string]string{"channel": "slack"}
	statement, err := ingestor.Ingest("we need search", "bob", time.Now(), ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx["channel"] = "mutated"
	if statement.Context["channel"] != "slack" {
		t.Errorf("Expected context to be copied, got %q", statement.Context["channel"])
	}
}

func TestLoader_ParseTranscript(t *testing.T) {
	loader := NewLoader(NewIngestor(model.IngestConfig{}))

	transcript := `# planning session
alice: we need user accounts
bob: it should be fast

the system must not exceed our budget
`

	conv, err := loader.Parse(strings.NewReader(transcript), "conv-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if conv.ID != "conv-1" {
		t.Errorf("Expected conversation id conv-1, got %q", conv.ID)
	}
	if len(conv.Statements) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(conv.Statements))
	}

	if conv.Statements[0].Speaker != "alice" {
		t.Errorf("Expected speaker alice, got %q", conv.Statements[0].Speaker)
	}
	if conv.Statements[0].Content != "we need user accounts" {
		t.Errorf("Unexpected content: %q", conv.Statements[0].Content)
	}
	if conv.Statements[2].Speaker != "user" {
		t.Errorf("Expected default speaker for unprefixed line, got %q", conv.Statements[2].Speaker)
	}

	// Statement order must survive via monotonic timestamps
	for i := 1; i < len(conv.Statements); i++ {
		if !conv.Statements[i].Timestamp.After(conv.Statements[i-1].Timestamp) {
			t.Errorf("Expected monotonic timestamps at index %d", i)
		}
	}
}

func TestLoader_EmptyTranscript(t *testing.T) {
	loader := NewLoader(NewIngestor(model.IngestConfig{}))

	_, err := loader.Parse(strings.NewReader("# only comments\n\n"), "")
	if err == nil {
		t.Fatal("Expected error for transcript with no statements")
	}
}

func TestSplitSpeaker(t *testing.T) {
	tests := []struct {
		line    string
		speaker string
		content string
	}{
		{"alice: we need search", "alice", "we need search"},
		{"we need search", "", "we need search"},
		{"note: the ratio is 3:1", "note", "the ratio is 3:1"},
		{"a very long prefix with spaces: text", "", "a very long prefix with spaces: text"},
		{": no speaker", "", ": no speaker"},
	}

	for _, tt := range tests {
		speaker, content := splitSpeaker(tt.line)
		if speaker != tt.speaker || content != tt.content {
			t.Errorf("splitSpeaker(%q) = (%q, %q), expected (%q, %q)",
				tt.line, speaker, content, tt.speaker, tt.content)
		}
	}
}
