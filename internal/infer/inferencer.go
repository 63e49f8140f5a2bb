package infer

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/model"
)

// HintProvider is the optional external text-completion collaborator.
// It is a fallback hint source only: the inferencer must produce a
// valid architecture when it is nil, unreachable, or talking nonsense.
type HintProvider interface {
	ComponentHint(ctx context.Context, requirement string) (name, kind string, err error)
}

// Inferencer maps a RequirementSet onto a component graph using the
// pattern table, with deterministic tie-breaking: more entities matched
// wins, then pattern declaration order.
type Inferencer struct {
	patterns []Pattern
	hints    HintProvider
}

// NewInferencer creates an inferencer. A nil hint provider disables LLM
// assistance entirely.
func NewInferencer(patterns []Pattern, hints HintProvider) *Inferencer {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Inferencer{patterns: patterns, hints: hints}
}

// Infer produces an Architecture from the given requirement set
func (inf *Inferencer) Infer(ctx context.Context, reqs *model.RequirementSet) (*model.Architecture, []model.Warning, error) {
	return inf.infer(ctx, reqs, true)
}

// EstimateComponents predicts how many components inference would
// produce, using local rules only.
func (inf *Inferencer) EstimateComponents(reqs *model.RequirementSet) int {
	arch, _, _ := inf.infer(context.Background(), reqs, false)
	return len(arch.Components)
}

type candidate struct {
	pattern Pattern
	matched []string
	order   int
}

// placement records which entities put a pattern component into the
// graph, for co-occurrence and tagging passes
type placement struct {
	componentID string
	entities    []string
}

func (inf *Inferencer) infer(ctx context.Context, reqs *model.RequirementSet, useHints bool) (*model.Architecture, []model.Warning, error) {
	arch := &model.Architecture{Version: 1}
	var warnings []model.Warning

	// (a) Match entities against the pattern table
	var candidates []candidate
	for i, pattern := range inf.patterns {
		matched := intersect(pattern.Entities, reqs.Entities)
		if len(matched) > 0 {
			candidates = append(candidates, candidate{pattern: pattern, matched: matched, order: i})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i].matched) != len(candidates[j].matched) {
			return len(candidates[i].matched) > len(candidates[j].matched)
		}
		return candidates[i].order < candidates[j].order
	})

	claimed := make(map[string]bool)
	var placements []placement

	for _, cand := range candidates {
		fresh := false
		for _, entity := range cand.matched {
			if !claimed[entity] {
				fresh = true
			}
		}
		if !fresh {
			continue
		}

		sources, texts := sourcesMentioning(reqs, cand.matched)
		if len(sources) == 0 {
			// Entity appeared in text but every clause containing it was
			// dropped; a component here would be an orphan
			continue
		}
		for _, entity := range cand.matched {
			claimed[entity] = true
		}

		component := model.Component{
			ID:                 componentID(cand.pattern.Kind, cand.pattern.Entities),
			Kind:               cand.pattern.Kind,
			Name:               cand.pattern.Name,
			Responsibilities:   appendUnique(append([]string(nil), cand.pattern.Responsibilities...), texts...),
			SourceRequirements: sources,
		}
		arch.Components = append(arch.Components, component)
		placements = append(placements, placement{componentID: component.ID, entities: cand.matched})
	}

	// (b) Uncovered functional requirements get a generic service
	covered := make(map[string]bool)
	for _, c := range arch.Components {
		for _, id := range c.SourceRequirements {
			covered[id] = true
		}
	}
	for _, req := range reqs.Functional {
		if covered[req.ID] {
			continue
		}
		component, w := inf.genericComponent(ctx, req, useHints)
		warnings = append(warnings, w...)
		if existing := arch.ComponentByID(component.ID); existing != nil {
			// Equivalent clauses reduce to the same id; union into the
			// existing component instead of duplicating it
			existing.Responsibilities = appendUnique(existing.Responsibilities, component.Responsibilities...)
			existing.SourceRequirements = appendUnique(existing.SourceRequirements, component.SourceRequirements...)
		} else {
			arch.Components = append(arch.Components, component)
		}
		covered[req.ID] = true
	}

	// (c) Relationships from entity co-occurrence within a clause
	arch.Relationships = inf.inferRelationships(arch, reqs, placements)

	// (d) Non-functional requirements annotate components
	inf.applyQualityTags(arch, reqs, placements)

	// (e) Constraints tag the architecture as a whole
	for _, req := range reqs.Constraints {
		if arch.Tags == nil {
			arch.Tags = make(map[string]string)
		}
		arch.Tags[constraintKey(req)] = req.Text
	}

	return arch, warnings, nil
}

// genericComponent builds a SERVICE for a functional requirement no
// pattern covered, delegating naming to the hint provider when one is
// configured.
func (inf *Inferencer) genericComponent(ctx context.Context, req model.Requirement, useHints bool) (model.Component, []model.Warning) {
	var warnings []model.Warning

	kind := model.KindService
	name := ""
	if useHints && inf.hints != nil {
		hintName, hintKind, err := inf.hints.ComponentHint(ctx, req.Text)
		if err == nil && validComponentName(hintName) {
			name = hintName
			if k, ok := parseKind(hintKind); ok {
				kind = k
			}
		} else {
			reason := "malformed hint"
			if err != nil {
				reason = err.Error()
			}
			warnings = append(warnings, model.Warning{
				Code:    model.WarnInferenceFallback,
				Message: fmt.Sprintf("hint provider unavailable for %s, using local rules: %s", req.ID, reason),
			})
		}
	}
	if name == "" {
		name = verbPhraseName(req.Text)
	}
	if name == "" {
		name = "GeneralService"
	}

	return model.Component{
		ID:                 componentID(kind, []string{strings.ToLower(name)}),
		Kind:               kind,
		Name:               name,
		Responsibilities:   []string{req.Text},
		SourceRequirements: []string{req.ID},
	}, warnings
}

// inferRelationships connects components whose trigger entities occur
// in the same functional clause. Direction follows text order: the
// component mentioned first is the active subject.
func (inf *Inferencer) inferRelationships(arch *model.Architecture, reqs *model.RequirementSet, placements []placement) []model.Relationship {
	var edges []model.Relationship
	seen := make(map[string]bool)

	for _, req := range reqs.Functional {
		lower := " " + strings.ToLower(req.Text) + " "

		type occurrence struct {
			componentID string
			position    int
		}
		var present []occurrence
		for _, p := range placements {
			pos := -1
			for _, entity := range p.entities {
				if idx := indexWord(lower, entity); idx >= 0 && (pos < 0 || idx < pos) {
					pos = idx
				}
			}
			if pos >= 0 {
				present = append(present, occurrence{componentID: p.componentID, position: pos})
			}
		}
		// Generic components participate through their source clause
		for i := range arch.Components {
			c := &arch.Components[i]
			if !isPlaced(placements, c.ID) && containsID(c.SourceRequirements, req.ID) {
				present = append(present, occurrence{componentID: c.ID, position: 0})
			}
		}

		sort.SliceStable(present, func(i, j int) bool { return present[i].position < present[j].position })

		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				from, to := present[i].componentID, present[j].componentID
				if from == to {
					continue
				}
				kind := edgeKind(arch.ComponentByID(to).Kind)
				key := from + "→" + to + ":" + string(kind)
				if !seen[key] {
					seen[key] = true
					edges = append(edges, model.Relationship{From: from, To: to, Kind: kind})
				}
			}
		}
	}

	return edges
}

// applyQualityTags annotates components co-occurring with each
// non-functional clause; clauses touching no component tag the
// architecture instead.
func (inf *Inferencer) applyQualityTags(arch *model.Architecture, reqs *model.RequirementSet, placements []placement) {
	for _, req := range reqs.NonFunctional {
		tag := classify.QualityTag(req.Text)
		if tag == "" {
			tag = "quality"
		}
		lower := " " + strings.ToLower(req.Text) + " "

		tagged := false
		for _, p := range placements {
			for _, entity := range p.entities {
				if indexWord(lower, entity) >= 0 {
					component := arch.ComponentByID(p.componentID)
					if component.Tags == nil {
						component.Tags = make(map[string]string)
					}
					component.Tags[tag] = req.Text
					component.SourceRequirements = appendUnique(component.SourceRequirements, req.ID)
					tagged = true
					break
				}
			}
		}
		if !tagged {
			if arch.Tags == nil {
				arch.Tags = make(map[string]string)
			}
			arch.Tags[tag] = req.Text
		}
	}
}

// edgeKind picks the relationship kind from the target's component kind
func edgeKind(target model.ComponentKind) model.RelationshipKind {
	switch target {
	case model.KindDatastore, model.KindCache:
		return model.RelStoresIn
	case model.KindQueue:
		return model.RelPublishesTo
	default:
		return model.RelCalls
	}
}

// componentID derives a stable id from the kind and the sorted identity
// signature. Equal signatures always hash to equal ids, which is the
// idempotence property evolution relies on.
func componentID(kind model.ComponentKind, signature []string) string {
	sig := append([]string(nil), signature...)
	sort.Strings(sig)

	h := fnv.New32a()
	_, _ = h.Write([]byte(string(kind)))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(strings.Join(sig, ",")))

	return fmt.Sprintf("%s-%08x", kindPrefix(kind), h.Sum32())
}

func kindPrefix(kind model.ComponentKind) string {
	switch kind {
	case model.KindService:
		return "svc"
	case model.KindDatastore:
		return "db"
	case model.KindGateway:
		return "gw"
	case model.KindQueue:
		return "q"
	case model.KindUI:
		return "ui"
	case model.KindCache:
		return "cache"
	case model.KindExternal:
		return "ext"
	default:
		return "cmp"
	}
}

// verbPhraseName builds a CamelCase service name from the leading verb
// phrase, e.g. "Create a REST API for users" → "CreateRestApiService"
func verbPhraseName(text string) string {
	verb := classify.FirstActionVerb(text)
	if verb == "" {
		return ""
	}

	tokens := strings.Fields(strings.ToLower(strings.Map(wordRunes, text)))
	var parts []string
	collecting := false
	for _, token := range tokens {
		if !collecting {
			if token == verb {
				collecting = true
				parts = append(parts, token)
			}
			continue
		}
		if fillerWords[token] {
			continue
		}
		parts = append(parts, token)
		if len(parts) == 3 {
			break
		}
	}

	var name strings.Builder
	for _, part := range parts {
		name.WriteString(strings.ToUpper(part[:1]))
		name.WriteString(part[1:])
	}
	name.WriteString("Service")
	return name.String()
}

func wordRunes(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
		return r
	default:
		return ' '
	}
}

var fillerWords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "for": true,
	"of": true, "with": true, "and": true, "our": true, "new": true,
	"some": true, "that": true, "this": true,
}

// constraintKey buckets a constraint into a well-known tag key
func constraintKey(req model.Requirement) string {
	lower := strings.ToLower(req.Text)
	switch {
	case strings.Contains(lower, "budget") || strings.Contains(lower, "cost"):
		return "budget"
	case strings.Contains(lower, "region") || strings.Contains(lower, "europe") || strings.Contains(lower, "eu "):
		return "region"
	case strings.Contains(lower, "on-premise") || strings.Contains(lower, "on premise") ||
		strings.Contains(lower, "cloud") || strings.Contains(lower, "aws") ||
		strings.Contains(lower, "gcp") || strings.Contains(lower, "azure"):
		return "deployment"
	default:
		return req.ID
	}
}

// sourcesMentioning returns the ids and texts of requirements whose
// clause contains any of the given entities. Functional first, then
// non-functional, then constraints, preserving clause order.
func sourcesMentioning(reqs *model.RequirementSet, entities []string) (ids, texts []string) {
	scan := func(list []model.Requirement) {
		for _, req := range list {
			lower := " " + strings.ToLower(req.Text) + " "
			for _, entity := range entities {
				if indexWord(lower, entity) >= 0 {
					ids = append(ids, req.ID)
					texts = append(texts, req.Text)
					break
				}
			}
		}
	}
	scan(reqs.Functional)
	scan(reqs.NonFunctional)
	scan(reqs.Constraints)
	return ids, texts
}

// indexWord finds entity as a whole word in the padded, lowered clause
func indexWord(paddedLower, entity string) int {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '!', '?', ';', ':', '(', ')', '"', '\'':
			return ' '
		}
		return r
	}, paddedLower)
	return strings.Index(cleaned, " "+entity+" ")
}

func intersect(cluster, entities []string) []string {
	var out []string
	for _, c := range cluster {
		for _, e := range entities {
			if c == e {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func isPlaced(placements []placement, id string) bool {
	for _, p := range placements {
		if p.componentID == id {
			return true
		}
	}
	return false
}

func validComponentName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for _, r := range name {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if !ok {
			return false
		}
	}
	return true
}

func parseKind(kind string) (model.ComponentKind, bool) {
	switch model.ComponentKind(strings.ToLower(strings.TrimSpace(kind))) {
	case model.KindService:
		return model.KindService, true
	case model.KindDatastore:
		return model.KindDatastore, true
	case model.KindGateway:
		return model.KindGateway, true
	case model.KindQueue:
		return model.KindQueue, true
	case model.KindUI:
		return model.KindUI, true
	case model.KindCache:
		return model.KindCache, true
	case model.KindExternal:
		return model.KindExternal, true
	default:
		return "", false
	}
}
