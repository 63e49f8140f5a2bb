package model

import (
	"errors"
	"sort"
	"testing"
)

func TestArchitecture_ComponentByID(t *testing.T) {
	arch := &Architecture{
		Components: []Component{
			{ID: "svc-1", Name: "A"},
			{ID: "svc-2", Name: "B"},
		},
	}

	c := arch.ComponentByID("svc-2")
	if c == nil || c.Name != "B" {
		t.Fatalf("Expected component B, got %+v", c)
	}

	// The pointer aliases the slice so callers can mutate in place
	c.Name = "Renamed"
	if arch.Components[1].Name != "Renamed" {
		t.Error("Expected mutation through the returned pointer")
	}

	if arch.ComponentByID("missing") != nil {
		t.Error("Expected nil for unknown id")
	}
}

func TestArchitecture_ComponentIDs(t *testing.T) {
	arch := &Architecture{
		Components: []Component{
			{ID: "svc-b"},
			{ID: "svc-a"},
		},
	}

	ids := arch.ComponentIDs()
	if !sort.StringsAreSorted(ids) {
		t.Errorf("Expected sorted ids, got %v", ids)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 ids, got %v", ids)
	}
}

func TestArchitecture_CloneIsDeep(t *testing.T) {
	arch := &Architecture{
		Version: 1,
		Components: []Component{
			{
				ID:                 "svc-1",
				Name:               "A",
				Responsibilities:   []string{"do things"},
				SourceRequirements: []string{"FR-1"},
				Tags:               map[string]string{"latency": "fast"},
			},
		},
		Relationships: []Relationship{{From: "svc-1", To: "svc-1", Kind: RelCalls}},
		Tags:          map[string]string{"budget": "50k"},
	}

	clone := arch.Clone()
	clone.Components[0].Responsibilities[0] = "mutated"
	clone.Components[0].Tags["latency"] = "mutated"
	clone.Tags["budget"] = "mutated"
	clone.Components = append(clone.Components, Component{ID: "svc-2"})

	if arch.Components[0].Responsibilities[0] != "do things" {
		t.Error("Clone shares responsibility slice")
	}
	if arch.Components[0].Tags["latency"] != "fast" {
		t.Error("Clone shares component tag map")
	}
	if arch.Tags["budget"] != "50k" {
		t.Error("Clone shares architecture tag map")
	}
	if len(arch.Components) != 1 {
		t.Error("Clone shares component slice")
	}
}

func TestConversation_Append(t *testing.T) {
	conv := NewConversation("")
	if conv.ID == "" {
		t.Fatal("Expected a generated id")
	}

	before := conv.UpdatedAt
	conv.Append(Statement{Content: "we need search"})
	if len(conv.Statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(conv.Statements))
	}
	if conv.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to advance")
	}
}

func TestStatementsByType(t *testing.T) {
	conv := NewConversation("c")
	conv.Append(Statement{Content: "a", Type: StatementFunctional})
	conv.Append(Statement{Content: "b", Type: StatementConstraint})
	conv.Append(Statement{Content: "c", Type: StatementFunctional})

	functional := conv.StatementsByType(StatementFunctional)
	if len(functional) != 2 {
		t.Errorf("Expected 2 functional statements, got %d", len(functional))
	}
}

func TestErrorTypes(t *testing.T) {
	var err error = &MalformedStatementError{Reason: "empty"}
	var malformed *MalformedStatementError
	if !errors.As(err, &malformed) {
		t.Error("Expected errors.As to match MalformedStatementError")
	}

	err = &ArchitectureConsistencyError{Violation: "orphan_component", Entity: "svc-1"}
	var consistency *ArchitectureConsistencyError
	if !errors.As(err, &consistency) {
		t.Error("Expected errors.As to match ArchitectureConsistencyError")
	}
	if consistency.Error() == "" {
		t.Error("Expected a message")
	}

	err = &EvolutionConflictError{ConversationID: "conv-1"}
	var conflict *EvolutionConflictError
	if !errors.As(err, &conflict) {
		t.Error("Expected errors.As to match EvolutionConflictError")
	}
}

func TestRequirementSet_Helpers(t *testing.T) {
	empty := &RequirementSet{}
	if !empty.IsEmpty() {
		t.Error("Expected empty set")
	}

	set := &RequirementSet{
		Functional: []Requirement{{ID: "FR-1"}, {ID: "FR-2"}},
		Entities:   []string{"order", "user"},
	}
	if set.IsEmpty() {
		t.Error("Expected non-empty set")
	}
	ids := set.FunctionalIDs()
	if len(ids) != 2 || ids[0] != "FR-1" {
		t.Errorf("Expected functional ids, got %v", ids)
	}
	if !set.HasEntity("user") || set.HasEntity("payment") {
		t.Error("HasEntity misbehaves")
	}
}
