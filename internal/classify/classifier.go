package classify

import (
	"fmt"
	"strings"

	"github.com/archigram/archigram/internal/model"
)

// Clause is one classified fragment of a statement
type Clause struct {
	Kind model.StatementType
	Text string
	Cue  string // Which rule matched (e.g. "constraint:must not", "verb:create")
	Tag  string // Quality-attribute tag for non-functional clauses (latency, security, ...)
}

// Classifier splits statement content into clauses and classifies each
// one with a fixed lexical rule table. Pure function of the content.
type Classifier struct{}

// NewClassifier creates a classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the classified clauses of a single statement, in
// clause order, plus warnings for clauses that were dropped.
func (c *Classifier) Classify(content string) ([]Clause, []model.Warning) {
	var clauses []Clause
	var warnings []model.Warning

	for _, sentence := range splitClauses(content) {
		lower := strings.ToLower(sentence)

		if cue := matchPhrase(lower, constraintCues); cue != "" {
			clauses = append(clauses, Clause{
				Kind: model.StatementConstraint,
				Text: sentence,
				Cue:  "constraint:" + cue,
			})
			continue
		}

		if cue, tag := matchQualityCue(lower); cue != "" {
			clauses = append(clauses, Clause{
				Kind: model.StatementNonFunctional,
				Text: sentence,
				Cue:  "quality:" + cue,
				Tag:  tag,
			})
			continue
		}

		if verb := firstActionVerb(lower); verb != "" {
			clauses = append(clauses, Clause{
				Kind: model.StatementFunctional,
				Text: sentence,
				Cue:  "verb:" + verb,
			})
			continue
		}

		// No cue and no action verb: drop with a warning, never fail
		warnings = append(warnings, model.Warning{
			Code:    model.WarnClauseDropped,
			Message: fmt.Sprintf("no action verb or cue in clause: %q", sentence),
		})
	}

	return clauses, warnings
}

// Offsets carries requirement id counters across classification calls,
// so evolution steps keep minting ids that do not collide with the
// conversation's earlier requirements.
type Offsets struct {
	Functional    int
	NonFunctional int
	Constraints   int
}

// Aggregate classifies every statement in order and assigns requirement
// ids (FR-n / NFR-n / C-n) continuing from the given offsets. Entities
// are left for the caller to fill in.
func (c *Classifier) Aggregate(statements []model.Statement, offsets Offsets) (*model.RequirementSet, []model.Warning) {
	set := &model.RequirementSet{}
	var warnings []model.Warning

	fr, nfr, con := offsets.Functional, offsets.NonFunctional, offsets.Constraints
	for _, statement := range statements {
		clauses, w := c.Classify(statement.Content)
		warnings = append(warnings, w...)

		for _, clause := range clauses {
			switch clause.Kind {
			case model.StatementFunctional:
				fr++
				set.Functional = append(set.Functional, model.Requirement{
					ID:   fmt.Sprintf("FR-%d", fr),
					Text: clause.Text,
				})
			case model.StatementNonFunctional:
				nfr++
				set.NonFunctional = append(set.NonFunctional, model.Requirement{
					ID:   fmt.Sprintf("NFR-%d", nfr),
					Text: clause.Text,
				})
			case model.StatementConstraint:
				con++
				set.Constraints = append(set.Constraints, model.Requirement{
					ID:   fmt.Sprintf("C-%d", con),
					Text: clause.Text,
				})
			}
		}
	}

	return set, warnings
}

// DominantKind picks a statement type from its clause mix, most
// specific kind first. Statements with no classifiable clause stay
// unknown.
func (c *Classifier) DominantKind(content string) model.StatementType {
	clauses, _ := c.Classify(content)
	if len(clauses) == 0 {
		return model.StatementUnknown
	}
	counts := make(map[model.StatementType]int)
	for _, clause := range clauses {
		counts[clause.Kind]++
	}
	best := clauses[0].Kind
	for _, kind := range []model.StatementType{model.StatementConstraint, model.StatementNonFunctional, model.StatementFunctional} {
		if counts[kind] > counts[best] {
			best = kind
		}
	}
	return best
}

// QualityTag returns the quality-attribute tag for a non-functional
// clause text, or "" when no cue matches.
func QualityTag(text string) string {
	_, tag := matchQualityCue(strings.ToLower(text))
	return tag
}

// FirstActionVerb returns the earliest action verb in the text, or ""
func FirstActionVerb(text string) string {
	return firstActionVerb(strings.ToLower(text))
}

// splitClauses splits statement content into sentences/clauses
func splitClauses(content string) []string {
	var clauses []string
	var current strings.Builder

	flush := func() {
		clause := strings.TrimSpace(current.String())
		current.Reset()
		if len(clause) >= 3 {
			clauses = append(clauses, clause)
		}
	}

	for _, r := range content {
		switch r {
		case '.', '!', '?', ';', '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return clauses
}

// matchPhrase returns the first cue contained in the clause, honoring
// table order
func matchPhrase(lower string, cues []string) string {
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return cue
		}
	}
	return ""
}

// matchQualityCue returns the first quality cue present plus its tag
func matchQualityCue(lower string) (cue, tag string) {
	for _, q := range qualityCues {
		if containsWord(lower, q.cue) {
			return q.cue, q.tag
		}
	}
	return "", ""
}

// firstActionVerb returns the earliest action verb in the clause, by
// word position
func firstActionVerb(lower string) string {
	for _, token := range strings.Fields(strings.Map(dropPunct, lower)) {
		if actionVerbs[token] {
			return token
		}
	}
	return ""
}

func containsWord(lower, word string) bool {
	padded := " " + strings.Map(dropPunct, lower) + " "
	return strings.Contains(padded, " "+word+" ")
}

func dropPunct(r rune) rune {
	switch r {
	case ',', '.', '!', '?', ';', ':', '(', ')', '"', '\'':
		return ' '
	}
	return r
}

// Rule tables. Order matters: it is the documented tie-break for
// clauses matching several cues.

var constraintCues = []string{
	"must not", "may not", "cannot exceed", "cannot", "can't",
	"no more than", "at most", "limited to", "not allowed", "forbidden",
	"never", "budget", "cost limit", "compliance", "comply with",
	"regulation", "gdpr", "on-premise", "on premise", "only in",
	"deadline", "restricted to",
}

var qualityCues = []struct {
	cue string
	tag string
}{
	{"fast", "latency"},
	{"quick", "latency"},
	{"low-latency", "latency"},
	{"latency", "latency"},
	{"responsive", "latency"},
	{"performance", "performance"},
	{"performant", "performance"},
	{"secure", "security"},
	{"security", "security"},
	{"encrypted", "security"},
	{"available", "availability"},
	{"availability", "availability"},
	{"uptime", "availability"},
	{"reliable", "availability"},
	{"reliability", "availability"},
	{"scalable", "scalability"},
	{"scalability", "scalability"},
	{"usable", "usability"},
	{"usability", "usability"},
	{"user-friendly", "usability"},
	{"intuitive", "usability"},
	{"maintainable", "maintainability"},
	{"portable", "portability"},
}

var actionVerbs = map[string]bool{
	"create": true, "build": true, "implement": true, "develop": true,
	"add": true, "remove": true, "update": true, "delete": true,
	"manage": true, "handle": true, "process": true, "generate": true,
	"send": true, "store": true, "support": true, "allow": true,
	"enable": true, "provide": true, "track": true, "search": true,
	"filter": true, "sort": true, "upload": true, "download": true,
	"display": true, "show": true, "list": true, "register": true,
	"authenticate": true, "notify": true, "schedule": true, "export": true,
	"import": true, "integrate": true, "sync": true, "need": true,
	"want": true, "drop": true,
}
