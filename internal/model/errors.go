package model

import "fmt"

// MalformedStatementError is returned when statement input fails
// validation. Caller's fault; never retried.
type MalformedStatementError struct {
	Reason string
}

func (e *MalformedStatementError) Error() string {
	return fmt.Sprintf("malformed statement: %s", e.Reason)
}

// ArchitectureConsistencyError is returned when a structural invariant
// of an inferred architecture is broken. Fatal to the current call.
type ArchitectureConsistencyError struct {
	Violation string // dangling_relationship, orphan_component, duplicate_component
	Entity    string // The offending component id or edge
}

func (e *ArchitectureConsistencyError) Error() string {
	return fmt.Sprintf("architecture consistency violation (%s): %s", e.Violation, e.Entity)
}

// EvolutionConflictError is returned when an evolution step is attempted
// while another is in flight for the same conversation. The caller must
// retry after the in-flight step completes.
type EvolutionConflictError struct {
	ConversationID string
}

func (e *EvolutionConflictError) Error() string {
	return fmt.Sprintf("evolution already in progress for conversation %s", e.ConversationID)
}
