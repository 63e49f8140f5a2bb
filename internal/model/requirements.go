package model

// Requirement is a classified fragment derived from statement text
type Requirement struct {
	ID   string `json:"id"`   // Stable within a conversation (FR-1, NFR-1, C-1, ...)
	Text string `json:"text"` // The clause as written, trimmed
}

// RequirementSet is the derived, per-call output of classification.
// The three sequences preserve clause order; Entities is the normalized,
// deduplicated, sorted entity set so equal inputs compare equal.
type RequirementSet struct {
	Functional    []Requirement `json:"functional_requirements"`
	NonFunctional []Requirement `json:"non_functional_requirements"`
	Constraints   []Requirement `json:"constraints"`
	Entities      []string      `json:"extracted_entities"`
}

// IsEmpty reports whether classification produced nothing at all
func (r *RequirementSet) IsEmpty() bool {
	return len(r.Functional) == 0 && len(r.NonFunctional) == 0 &&
		len(r.Constraints) == 0 && len(r.Entities) == 0
}

// FunctionalIDs returns the ids of all functional requirements, in order
func (r *RequirementSet) FunctionalIDs() []string {
	ids := make([]string, 0, len(r.Functional))
	for _, req := range r.Functional {
		ids = append(ids, req.ID)
	}
	return ids
}

// HasEntity reports whether the normalized entity is present
func (r *RequirementSet) HasEntity(entity string) bool {
	for _, e := range r.Entities {
		if e == entity {
			return true
		}
	}
	return false
}
