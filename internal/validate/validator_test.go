package validate

import (
	"errors"
	"testing"

	"github.com/archigram/archigram/internal/model"
)

func validArchitecture() *model.Architecture {
	return &model.Architecture{
		Version: 1,
		Components: []model.Component{
			{
				ID:                 "svc-00000001",
				Kind:               model.KindService,
				Name:               "OrderService",
				SourceRequirements: []string{"FR-1"},
			},
			{
				ID:                 "db-00000002",
				Kind:               model.KindDatastore,
				Name:               "PrimaryDatastore",
				SourceRequirements: []string{"FR-1"},
			},
		},
		Relationships: []model.Relationship{
			{From: "svc-00000001", To: "db-00000002", Kind: model.RelStoresIn},
		},
	}
}

func TestValidator_AcceptsWellFormed(t *testing.T) {
	validator := NewValidator(nil)

	reqs := &model.RequirementSet{
		Functional: []model.Requirement{{ID: "FR-1", Text: "Store orders"}},
	}

	warnings, err := validator.Validate(validArchitecture(), reqs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}

func TestValidator_DuplicateComponent(t *testing.T) {
	validator := NewValidator(nil)

	arch := validArchitecture()
	arch.Components = append(arch.Components, arch.Components[0])

	_, err := validator.Validate(arch, nil)
	if err == nil {
		t.Fatal("Expected error for duplicate component id")
	}

	var consistency *model.ArchitectureConsistencyError
	if !errors.As(err, &consistency) {
		t.Fatalf("Expected ArchitectureConsistencyError, got %T", err)
	}
	if consistency.Violation != ViolationDuplicateComponent {
		t.Errorf("Expected %q, got %q", ViolationDuplicateComponent, consistency.Violation)
	}
	if consistency.Entity != "svc-00000001" {
		t.Errorf("Expected offending id in error, got %q", consistency.Entity)
	}
}

func TestValidator_DanglingRelationship(t *testing.T) {
	validator := NewValidator(nil)

	arch := validArchitecture()
	arch.Relationships = append(arch.Relationships, model.Relationship{
		From: "svc-00000001", To: "q-deadbeef", Kind: model.RelPublishesTo,
	})

	_, err := validator.Validate(arch, nil)
	if err == nil {
		t.Fatal("Expected error for dangling relationship")
	}

	var consistency *model.ArchitectureConsistencyError
	if !errors.As(err, &consistency) {
		t.Fatalf("Expected ArchitectureConsistencyError, got %T", err)
	}
	if consistency.Violation != ViolationDanglingRelationship {
		t.Errorf("Expected %q, got %q", ViolationDanglingRelationship, consistency.Violation)
	}
}

func TestValidator_OrphanComponent(t *testing.T) {
	validator := NewValidator(nil)

	arch := validArchitecture()
	arch.Components = append(arch.Components, model.Component{
		ID:   "svc-deadbeef",
		Kind: model.KindService,
		Name: "MysteryService",
	})

	_, err := validator.Validate(arch, nil)
	if err == nil {
		t.Fatal("Expected error for orphan component")
	}

	var consistency *model.ArchitectureConsistencyError
	if !errors.As(err, &consistency) {
		t.Fatalf("Expected ArchitectureConsistencyError, got %T", err)
	}
	if consistency.Violation != ViolationOrphanComponent {
		t.Errorf("Expected %q, got %q", ViolationOrphanComponent, consistency.Violation)
	}
	if consistency.Entity != "svc-deadbeef" {
		t.Errorf("Expected orphan id in error, got %q", consistency.Entity)
	}
}

func TestValidator_CoverageWarnings(t *testing.T) {
	validator := NewValidator(nil)

	reqs := &model.RequirementSet{
		Functional: []model.Requirement{
			{ID: "FR-1", Text: "Store orders"},
			{ID: "FR-2", Text: "Email the customer"},
		},
	}

	warnings, err := validator.Validate(validArchitecture(), reqs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 coverage warning, got %d", len(warnings))
	}
	if warnings[0].Code != model.WarnRequirementUncovered {
		t.Errorf("Expected %q, got %q", model.WarnRequirementUncovered, warnings[0].Code)
	}
}

func TestValidator_NilRequirements(t *testing.T) {
	validator := NewValidator(nil)

	warnings, err := validator.Validate(validArchitecture(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings with nil requirements, got %v", warnings)
	}
}
