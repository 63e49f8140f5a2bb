package classify

import (
	"strings"
	"testing"

	"github.com/archigram/archigram/internal/model"
)

func TestClassifier_ConstraintBeatsActionVerb(t *testing.T) {
	classifier := NewClassifier()

	// "store" is an action verb, but the constraint cue wins
	clauses, warnings := classifier.Classify("The system must not store data outside the EU")
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(clauses) != 1 {
		t.Fatalf("Expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Kind != model.StatementConstraint {
		t.Errorf("Expected constraint, got %q", clauses[0].Kind)
	}
	if clauses[0].Cue != "constraint:must not" {
		t.Errorf("Expected cue 'constraint:must not', got %q", clauses[0].Cue)
	}
}

func TestClassifier_QualityCueAndTag(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text string
		tag  string
	}{
		{"It should be fast", "latency"},
		{"The API has to be secure", "security"},
		{"The service must stay available around the clock", "availability"},
		{"Everything should be scalable", "scalability"},
	}

	for _, tt := range tests {
		clauses, _ := classifier.Classify(tt.text)
		if len(clauses) != 1 {
			t.Fatalf("Classify(%q): expected 1 clause, got %d", tt.text, len(clauses))
		}
		if clauses[0].Kind != model.StatementNonFunctional {
			t.Errorf("Classify(%q): expected non-functional, got %q", tt.text, clauses[0].Kind)
		}
		if clauses[0].Tag != tt.tag {
			t.Errorf("Classify(%q): expected tag %q, got %q", tt.text, tt.tag, clauses[0].Tag)
		}
	}
}

func TestClassifier_FunctionalByActionVerb(t *testing.T) {
	classifier := NewClassifier()

	clauses, _ := classifier.Classify("Users can upload files")
	if len(clauses) != 1 {
		t.Fatalf("Expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Kind != model.StatementFunctional {
		t.Errorf("Expected functional, got %q", clauses[0].Kind)
	}
	if clauses[0].Cue != "verb:upload" {
		t.Errorf("Expected cue 'verb:upload', got %q", clauses[0].Cue)
	}
}

func TestClassifier_SplitsClauses(t *testing.T) {
	classifier := NewClassifier()

	clauses, _ := classifier.Classify("Users can upload files. The app must be available around the clock; it cannot exceed our budget")
	if len(clauses) != 3 {
		t.Fatalf("Expected 3 clauses, got %d: %v", len(clauses), clauses)
	}

	kinds := []model.StatementType{clauses[0].Kind, clauses[1].Kind, clauses[2].Kind}
	expected := []model.StatementType{model.StatementFunctional, model.StatementNonFunctional, model.StatementConstraint}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("Clause %d: expected %q, got %q", i, expected[i], kinds[i])
		}
	}
}

func TestClassifier_DropsUnclassifiable(t *testing.T) {
	classifier := NewClassifier()

	clauses, warnings := classifier.Classify("Wow, that sounds great")
	if len(clauses) != 0 {
		t.Errorf("Expected no clauses, got %v", clauses)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Code != model.WarnClauseDropped {
		t.Errorf("Expected %q, got %q", model.WarnClauseDropped, warnings[0].Code)
	}
	if !strings.Contains(warnings[0].Message, "Wow") {
		t.Errorf("Expected dropped clause in message, got %q", warnings[0].Message)
	}
}

func TestClassifier_AggregateAssignsIDs(t *testing.T) {
	classifier := NewClassifier()

	statements := []model.Statement{
		{Content: "Users can upload files"},
		{Content: "It should be fast"},
		{Content: "The budget is limited to 50k"},
		{Content: "Admins can delete accounts"},
	}

	set, warnings := classifier.Aggregate(statements, Offsets{})
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(set.Functional) != 2 {
		t.Fatalf("Expected 2 functional requirements, got %d", len(set.Functional))
	}
	if set.Functional[0].ID != "FR-1" || set.Functional[1].ID != "FR-2" {
		t.Errorf("Expected FR-1, FR-2; got %s, %s", set.Functional[0].ID, set.Functional[1].ID)
	}
	if len(set.NonFunctional) != 1 || set.NonFunctional[0].ID != "NFR-1" {
		t.Errorf("Expected NFR-1, got %v", set.NonFunctional)
	}
	if len(set.Constraints) != 1 || set.Constraints[0].ID != "C-1" {
		t.Errorf("Expected C-1, got %v", set.Constraints)
	}
}

func TestClassifier_AggregateContinuesFromOffsets(t *testing.T) {
	classifier := NewClassifier()

	statements := []model.Statement{
		{Content: "Add export to CSV"},
		{Content: "Exports must be encrypted"},
	}

	set, _ := classifier.Aggregate(statements, Offsets{Functional: 4, NonFunctional: 2, Constraints: 1})

	if len(set.Functional) != 1 || set.Functional[0].ID != "FR-5" {
		t.Errorf("Expected FR-5 continuing from offset, got %v", set.Functional)
	}
	if len(set.NonFunctional) != 1 || set.NonFunctional[0].ID != "NFR-3" {
		t.Errorf("Expected NFR-3 continuing from offset, got %v", set.NonFunctional)
	}
}

func TestFirstActionVerb(t *testing.T) {
	if verb := FirstActionVerb("Please create and then delete the record"); verb != "create" {
		t.Errorf("Expected earliest verb 'create', got %q", verb)
	}
	if verb := FirstActionVerb("nothing verbal here"); verb != "" {
		t.Errorf("Expected no verb, got %q", verb)
	}
}

func TestQualityTag(t *testing.T) {
	if tag := QualityTag("it must be reliable"); tag != "availability" {
		t.Errorf("Expected 'availability', got %q", tag)
	}
	if tag := QualityTag("users can upload files"); tag != "" {
		t.Errorf("Expected no tag, got %q", tag)
	}
}
