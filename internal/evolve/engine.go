package evolve

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/extract"
	"github.com/archigram/archigram/internal/infer"
	"github.com/archigram/archigram/internal/model"
)

// Engine computes incremental architecture updates from newly appended
// statements. The merge is monotonic: components are only removed by an
// explicit retraction statement, never by omission.
type Engine struct {
	inferencer *infer.Inferencer
	classifier *classify.Classifier
	extractor  *extract.EntityExtractor

	mu    sync.Mutex
	locks map[string]*sync.Mutex // Single-writer per conversation id
}

// NewEngine creates an evolution engine sharing the pipeline's
// inferencer, classifier and extractor.
func NewEngine(inferencer *infer.Inferencer, classifier *classify.Classifier, extractor *extract.EntityExtractor) *Engine {
	return &Engine{
		inferencer: inferencer,
		classifier: classifier,
		extractor:  extractor,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Result is the outcome of one evolution step
type Result struct {
	Architecture *model.Architecture
	Diff         *model.DiffReport
	Requirements *model.RequirementSet // Derived from the new statements only
	Warnings     []model.Warning
}

// Evolve produces version N+1 from the prior architecture and the newly
// appended statements. Concurrent calls for the same conversation id
// serialize: later callers block until the in-flight step completes.
func (e *Engine) Evolve(ctx context.Context, conversationID string, prior *model.Architecture, statements []model.Statement, offsets classify.Offsets) (*Result, error) {
	lock := e.conversationLock(conversationID)
	lock.Lock()
	defer lock.Unlock()
	return e.evolve(ctx, prior, statements, offsets)
}

// TryEvolve is the fail-fast variant: it returns EvolutionConflictError
// instead of waiting when an evolution step for the same conversation is
// already in flight.
func (e *Engine) TryEvolve(ctx context.Context, conversationID string, prior *model.Architecture, statements []model.Statement, offsets classify.Offsets) (*Result, error) {
	lock := e.conversationLock(conversationID)
	if !lock.TryLock() {
		return nil, &model.EvolutionConflictError{ConversationID: conversationID}
	}
	defer lock.Unlock()
	return e.evolve(ctx, prior, statements, offsets)
}

func (e *Engine) conversationLock(conversationID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[conversationID] = lock
	}
	return lock
}

func (e *Engine) evolve(ctx context.Context, prior *model.Architecture, statements []model.Statement, offsets classify.Offsets) (*Result, error) {
	retractions, additive := partition(statements)

	// Classify and extract over the new statements only
	reqs, warnings := e.classifier.Aggregate(additive, offsets)
	entitySet := make(map[string]bool)
	for _, s := range additive {
		for _, entity := range e.extractor.Extract(s.Content) {
			entitySet[entity] = true
		}
	}
	for entity := range entitySet {
		reqs.Entities = append(reqs.Entities, entity)
	}
	sort.Strings(reqs.Entities)

	candidate, inferWarnings, err := e.inferencer.Infer(ctx, reqs)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, inferWarnings...)

	next := prior.Clone()
	next.Version = prior.Version + 1
	diff := &model.DiffReport{}

	// Merge components: matching ids update in place, the rest are new
	for _, cand := range candidate.Components {
		if existing := next.ComponentByID(cand.ID); existing != nil {
			before := len(existing.Responsibilities) + len(existing.SourceRequirements)
			existing.Responsibilities = unionStrings(existing.Responsibilities, cand.Responsibilities)
			existing.SourceRequirements = unionStrings(existing.SourceRequirements, cand.SourceRequirements)
			changed := len(existing.Responsibilities)+len(existing.SourceRequirements) != before
			for k, v := range cand.Tags {
				if existing.Tags[k] == v {
					continue
				}
				if existing.Tags == nil {
					existing.Tags = make(map[string]string)
				}
				existing.Tags[k] = v
				changed = true
			}
			if changed {
				diff.Updated = append(diff.Updated, existing.ID)
			}
		} else {
			next.Components = append(next.Components, cand)
			diff.Added = append(diff.Added, cand.ID)
		}
	}

	// Merge relationships, skipping duplicates
	for _, rel := range candidate.Relationships {
		if !hasRelationship(next.Relationships, rel) {
			next.Relationships = append(next.Relationships, rel)
		}
	}

	// Merge architecture-wide tags
	for k, v := range candidate.Tags {
		if next.Tags == nil {
			next.Tags = make(map[string]string)
		}
		next.Tags[k] = v
	}

	// Apply explicit retractions last, so a statement can replace a
	// component it retracts in the same step
	for _, statement := range retractions {
		removed := e.retract(next, statement)
		diff.Removed = append(diff.Removed, removed...)
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Updated)
	sort.Strings(diff.Removed)

	return &Result{
		Architecture: next,
		Diff:         diff,
		Requirements: reqs,
		Warnings:     warnings,
	}, nil
}

// retract removes components named by the retraction statement and
// every relationship touching them. Statements that retract nothing are
// a no-op.
func (e *Engine) retract(arch *model.Architecture, statement model.Statement) []string {
	entities := e.extractor.Extract(statement.Content)
	if len(entities) == 0 {
		return nil
	}

	var removed []string
	var kept []model.Component
	for _, component := range arch.Components {
		if componentMentions(component, entities) {
			removed = append(removed, component.ID)
			continue
		}
		kept = append(kept, component)
	}
	if len(removed) == 0 {
		return nil
	}
	arch.Components = kept

	gone := make(map[string]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	var edges []model.Relationship
	for _, rel := range arch.Relationships {
		if !gone[rel.From] && !gone[rel.To] {
			edges = append(edges, rel)
		}
	}
	arch.Relationships = edges

	return removed
}

// componentMentions matches a component against retraction entities by
// name tokens and responsibility text
func componentMentions(component model.Component, entities []string) bool {
	name := strings.ToLower(component.Name)
	for _, entity := range entities {
		if strings.Contains(name, strings.ReplaceAll(entity, "-", "")) {
			return true
		}
		for _, resp := range component.Responsibilities {
			padded := " " + strings.ToLower(resp) + " "
			if strings.Contains(padded, " "+entity+" ") {
				return true
			}
		}
	}
	return false
}

// Retraction cues. "remove"/"drop" only count when they lead the
// statement, so "users can remove items from the cart" stays additive.
var retractionPhrases = []string{
	"no longer need", "no longer needed", "get rid of", "we don't need",
	"do not need", "scrap the",
}

// IsRetraction reports whether a statement retracts prior requirements
func IsRetraction(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range retractionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	fields := strings.Fields(lower)
	if len(fields) > 0 && (fields[0] == "remove" || fields[0] == "drop") {
		return true
	}
	return false
}

func partition(statements []model.Statement) (retractions, additive []model.Statement) {
	for _, s := range statements {
		if IsRetraction(s.Content) {
			retractions = append(retractions, s)
		} else {
			additive = append(additive, s)
		}
	}
	return retractions, additive
}

func unionStrings(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}

func hasRelationship(rels []model.Relationship, rel model.Relationship) bool {
	for _, existing := range rels {
		if existing == rel {
			return true
		}
	}
	return false
}
