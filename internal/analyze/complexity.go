package analyze

import (
	"fmt"
	"sort"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/extract"
	"github.com/archigram/archigram/internal/infer"
	"github.com/archigram/archigram/internal/model"
)

// Clause weights for the complexity score. Constraints weigh most:
// they cut across components instead of mapping onto one.
const (
	weightFunctional    = 1.0
	weightNonFunctional = 1.5
	weightConstraint    = 2.0
)

// Analyzer estimates conversation complexity without running the full
// inference pipeline. The numbers are advisory: callers use them to
// size batches and flag conversations that deserve a closer look.
type Analyzer struct {
	classifier *classify.Classifier
	extractor  *extract.EntityExtractor
	inferencer *infer.Inferencer
}

// NewAnalyzer creates a complexity analyzer sharing the pipeline's
// classifier, extractor and inferencer.
func NewAnalyzer(classifier *classify.Classifier, extractor *extract.EntityExtractor, inferencer *infer.Inferencer) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		extractor:  extractor,
		inferencer: inferencer,
	}
}

// Analyze produces a complexity report for a conversation. It never
// calls a provider and never fails: an empty conversation yields a
// zero report.
func (a *Analyzer) Analyze(conv *model.Conversation) *model.ComplexityReport {
	report := &model.ComplexityReport{
		StatementTypes: make(map[model.StatementType]int),
	}
	if conv == nil || len(conv.Statements) == 0 {
		return report
	}

	report.StatementCount = len(conv.Statements)

	// A throwaway requirement set drives the component estimate, so the
	// same clauses feed both the counters and the estimator
	reqs := &model.RequirementSet{}
	entitySet := make(map[string]bool)
	var weighted float64
	clauseCount := 0

	for _, statement := range conv.Statements {
		report.TotalLength += len(statement.Content)

		clauses, _ := a.classifier.Classify(statement.Content)
		for _, clause := range clauses {
			clauseCount++
			report.StatementTypes[clause.Kind]++
			switch clause.Kind {
			case model.StatementFunctional:
				weighted += weightFunctional
				reqs.Functional = append(reqs.Functional, model.Requirement{
					ID:   fmt.Sprintf("FR-%d", len(reqs.Functional)+1),
					Text: clause.Text,
				})
			case model.StatementNonFunctional:
				weighted += weightNonFunctional
				reqs.NonFunctional = append(reqs.NonFunctional, model.Requirement{
					ID:   fmt.Sprintf("NFR-%d", len(reqs.NonFunctional)+1),
					Text: clause.Text,
				})
			case model.StatementConstraint:
				weighted += weightConstraint
				reqs.Constraints = append(reqs.Constraints, model.Requirement{
					ID:   fmt.Sprintf("C-%d", len(reqs.Constraints)+1),
					Text: clause.Text,
				})
			}
		}

		for _, entity := range a.extractor.Extract(statement.Content) {
			entitySet[entity] = true
		}
	}

	report.EntityCount = len(entitySet)
	report.AverageLength = float64(report.TotalLength) / float64(report.StatementCount)

	for entity := range entitySet {
		reqs.Entities = append(reqs.Entities, entity)
	}
	sort.Strings(reqs.Entities)
	report.ComponentCountEstimate = a.inferencer.EstimateComponents(reqs)

	// Score on a 0-10 scale: weighted clause mass plus entity spread,
	// saturating rather than growing without bound
	raw := weighted + float64(report.EntityCount)*0.5
	report.ComplexityScore = 10 * raw / (raw + 10)

	report.Signals = a.signals(report, clauseCount)
	return report
}

// signals derives human-readable flags from the raw numbers
func (a *Analyzer) signals(report *model.ComplexityReport, clauseCount int) []model.Signal {
	var signals []model.Signal

	if clauseCount == 0 && report.StatementCount > 0 {
		signals = append(signals, model.Signal{
			Type:        "no_classifiable_clauses",
			Severity:    model.SeverityWarning,
			Description: "no statement produced a functional, quality or constraint clause",
			Data:        map[string]interface{}{"statements": report.StatementCount},
		})
	}

	if report.EntityCount == 0 && report.StatementCount > 0 {
		signals = append(signals, model.Signal{
			Type:        "no_entities",
			Severity:    model.SeverityWarning,
			Description: "no domain entities recognized; inference will rely on fallback naming",
			Data:        map[string]interface{}{"statements": report.StatementCount},
		})
	}

	if report.ComponentCountEstimate >= 8 {
		signals = append(signals, model.Signal{
			Type:        "large_architecture",
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("roughly %d components expected; consider splitting the conversation", report.ComponentCountEstimate),
			Data:        map[string]interface{}{"estimate": report.ComponentCountEstimate},
		})
	}

	constraints := report.StatementTypes[model.StatementConstraint]
	if clauseCount > 0 && constraints*2 > clauseCount {
		signals = append(signals, model.Signal{
			Type:        "constraint_heavy",
			Severity:    model.SeverityWarning,
			Description: "more than half of the clauses are constraints; the architecture may be over-determined",
			Data:        map[string]interface{}{"constraints": constraints, "clauses": clauseCount},
		})
	}

	if report.AverageLength > 400 {
		signals = append(signals, model.Signal{
			Type:        "long_statements",
			Severity:    model.SeverityInfo,
			Description: "statements are long; clause splitting may miss embedded requirements",
			Data:        map[string]interface{}{"average_length": report.AverageLength},
		})
	}

	if report.ComplexityScore >= 8 {
		signals = append(signals, model.Signal{
			Type:        "high_complexity",
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("complexity score %.1f/10; review the inferred architecture manually", report.ComplexityScore),
			Data:        map[string]interface{}{"score": report.ComplexityScore},
		})
	}

	return signals
}
