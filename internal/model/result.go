package model

// ErrorDescriptor is a machine-readable error attached to a ProcessingResult
type ErrorDescriptor struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes for reportable-but-non-fatal conditions
const (
	WarnInferenceFallback    = "inference_fallback_used" // LLM hint unavailable or malformed, local rules used
	WarnClauseDropped        = "clause_dropped"          // Clause had no action verb and no cue match
	WarnRequirementUncovered = "requirement_uncovered"   // Functional requirement maps to no component
)

// Warning is a non-fatal diagnostic attached to a ProcessingResult
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProcessingResult is returned per invocation of the conversation
// service. Not persisted.
type ProcessingResult struct {
	Success      bool              `json:"success"`
	Requirements *RequirementSet   `json:"requirements,omitempty"`
	Architecture *Architecture     `json:"architecture,omitempty"`
	Errors       []ErrorDescriptor `json:"errors,omitempty"`
	Warnings     []Warning         `json:"warnings,omitempty"`
}

// AddError records an error and marks the result failed
func (r *ProcessingResult) AddError(code, message string) {
	r.Success = false
	r.Errors = append(r.Errors, ErrorDescriptor{Code: code, Message: message})
}

// AddWarning records a non-fatal diagnostic
func (r *ProcessingResult) AddWarning(code, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message})
}

// SignalSeverity indicates the importance of a complexity signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Signal is a diagnostic emitted by complexity analysis, with the raw
// inputs exposed so the number is explainable.
type Signal struct {
	Type        string                 `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// ComplexityReport summarizes how much work a conversation implies
type ComplexityReport struct {
	StatementCount         int                   `json:"statement_count"`
	EntityCount            int                   `json:"entity_count"`
	ComponentCountEstimate int                   `json:"component_count_estimate"`
	StatementTypes         map[StatementType]int `json:"statement_types"`
	TotalLength            int                   `json:"total_length"`
	AverageLength          float64               `json:"average_length"`
	ComplexityScore        float64               `json:"complexity_score"` // 0-10 scale
	Signals                []Signal              `json:"signals,omitempty"`
}
