package validate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/archigram/archigram/internal/model"
)

// Violation codes for ArchitectureConsistencyError
const (
	ViolationDanglingRelationship = "dangling_relationship"
	ViolationOrphanComponent      = "orphan_component"
	ViolationDuplicateComponent   = "duplicate_component"
)

// Validator checks an inferred architecture for structural
// well-formedness and requirement coverage. Structural violations are
// fatal; coverage gaps are soft warnings.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a validator. The logger receives a full
// architecture snapshot on structural failures for diagnosis.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

// Validate returns coverage warnings, or an
// ArchitectureConsistencyError when a structural invariant is broken.
func (v *Validator) Validate(arch *model.Architecture, reqs *model.RequirementSet) ([]model.Warning, error) {
	if err := v.checkStructure(arch); err != nil {
		v.logger.Error("architecture consistency violation",
			zap.Error(err),
			zap.Int("version", arch.Version),
			zap.Any("architecture", arch),
		)
		return nil, err
	}

	return v.checkCoverage(arch, reqs), nil
}

func (v *Validator) checkStructure(arch *model.Architecture) error {
	// (iii) duplicate component ids
	seen := make(map[string]bool, len(arch.Components))
	for _, c := range arch.Components {
		if seen[c.ID] {
			return &model.ArchitectureConsistencyError{
				Violation: ViolationDuplicateComponent,
				Entity:    c.ID,
			}
		}
		seen[c.ID] = true
	}

	// (i) dangling relationship endpoints
	for _, rel := range arch.Relationships {
		if !seen[rel.From] {
			return &model.ArchitectureConsistencyError{
				Violation: ViolationDanglingRelationship,
				Entity:    fmt.Sprintf("%s→%s (%s): missing %s", rel.From, rel.To, rel.Kind, rel.From),
			}
		}
		if !seen[rel.To] {
			return &model.ArchitectureConsistencyError{
				Violation: ViolationDanglingRelationship,
				Entity:    fmt.Sprintf("%s→%s (%s): missing %s", rel.From, rel.To, rel.Kind, rel.To),
			}
		}
	}

	// (ii) orphan components
	for _, c := range arch.Components {
		if len(c.SourceRequirements) == 0 {
			return &model.ArchitectureConsistencyError{
				Violation: ViolationOrphanComponent,
				Entity:    c.ID,
			}
		}
	}

	return nil
}

// checkCoverage reports functional requirements no component traces to.
// Natural-language coverage is best-effort, so gaps never fail the call.
func (v *Validator) checkCoverage(arch *model.Architecture, reqs *model.RequirementSet) []model.Warning {
	if reqs == nil {
		return nil
	}

	covered := make(map[string]bool)
	for _, c := range arch.Components {
		for _, id := range c.SourceRequirements {
			covered[id] = true
		}
	}

	var warnings []model.Warning
	for _, req := range reqs.Functional {
		if !covered[req.ID] {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnRequirementUncovered,
				Message: fmt.Sprintf("%s maps to no component: %q", req.ID, req.Text),
			})
		}
	}
	return warnings
}
