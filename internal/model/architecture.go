package model

import "sort"

// ComponentKind classifies an architecture component
type ComponentKind string

const (
	KindService   ComponentKind = "service"
	KindDatastore ComponentKind = "datastore"
	KindGateway   ComponentKind = "gateway"
	KindQueue     ComponentKind = "queue"
	KindUI        ComponentKind = "ui"
	KindCache     ComponentKind = "cache"
	KindExternal  ComponentKind = "external_integration"
)

// RelationshipKind classifies a directed edge between components
type RelationshipKind string

const (
	RelCalls       RelationshipKind = "calls"
	RelStoresIn    RelationshipKind = "stores_in"
	RelPublishesTo RelationshipKind = "publishes_to"
	RelDependsOn   RelationshipKind = "depends_on"
)

// Component is a node in the inferred architecture graph.
// ID is content-derived and stable across re-inference of semantically
// unchanged requirements.
type Component struct {
	ID                 string            `json:"id"`
	Kind               ComponentKind     `json:"kind"`
	Name               string            `json:"name"`
	Responsibilities   []string          `json:"responsibilities"`
	SourceRequirements []string          `json:"source_requirement_ids"`
	Tags               map[string]string `json:"tags,omitempty"` // Non-functional annotations (latency, security, ...)
}

// Relationship is a directed edge. Both endpoints must exist in the
// same Architecture.
type Relationship struct {
	From string           `json:"from"`
	To   string           `json:"to"`
	Kind RelationshipKind `json:"kind"`
}

// Architecture is the versioned component graph inferred from a
// RequirementSet. Mutated only through the evolution engine, which
// always produces a new version.
type Architecture struct {
	Components    []Component       `json:"components"`
	Relationships []Relationship    `json:"relationships"`
	Version       int               `json:"version"`
	Tags          map[string]string `json:"tags,omitempty"` // Conversation-wide constraints (budget, region, ...)
}

// ComponentByID returns the component with the given id, or nil
func (a *Architecture) ComponentByID(id string) *Component {
	for i := range a.Components {
		if a.Components[i].ID == id {
			return &a.Components[i]
		}
	}
	return nil
}

// ComponentIDs returns all component ids, sorted
func (a *Architecture) ComponentIDs() []string {
	ids := make([]string, 0, len(a.Components))
	for _, c := range a.Components {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy, so evolution can build version N+1 without
// touching version N.
func (a *Architecture) Clone() *Architecture {
	out := &Architecture{
		Version: a.Version,
		Tags:    copyMap(a.Tags),
	}
	out.Components = make([]Component, len(a.Components))
	for i, c := range a.Components {
		out.Components[i] = Component{
			ID:                 c.ID,
			Kind:               c.Kind,
			Name:               c.Name,
			Responsibilities:   append([]string(nil), c.Responsibilities...),
			SourceRequirements: append([]string(nil), c.SourceRequirements...),
			Tags:               copyMap(c.Tags),
		}
	}
	out.Relationships = append([]Relationship(nil), a.Relationships...)
	return out
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DiffReport describes what an evolution step changed
type DiffReport struct {
	Added   []string `json:"added"`   // Component ids introduced in version N+1
	Updated []string `json:"updated"` // Component ids updated in place
	Removed []string `json:"removed"` // Component ids removed by explicit retraction
}
