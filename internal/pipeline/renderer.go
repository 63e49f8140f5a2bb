package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/archigram/archigram/internal/model"
)

// Renderer writes processing results in the configured output format
type Renderer struct {
	format  string
	verbose bool
}

// NewRenderer creates a renderer. Supported formats: json, yaml,
// markdown, summary.
func NewRenderer(cfg model.OutputConfig) *Renderer {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
	}
	return &Renderer{format: format, verbose: cfg.Verbose}
}

// Render writes the result to w in the configured format
func (r *Renderer) Render(w io.Writer, result *model.ProcessingResult) error {
	switch r.format {
	case "json":
		return RenderJSON(w, result)
	case "yaml", "yml":
		return RenderYAML(w, result)
	case "markdown", "md":
		return RenderMarkdown(w, result)
	case "summary":
		return RenderSummary(w, result)
	default:
		return fmt.Errorf("unknown output format: %s (supported: json, yaml, markdown, summary)", r.format)
	}
}

// RenderJSON writes the result as indented JSON
func RenderJSON(w io.Writer, result *model.ProcessingResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// RenderYAML writes the result as YAML
func RenderYAML(w io.Writer, result *model.ProcessingResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(result)
}

// RenderMarkdown writes a human-readable architecture document
func RenderMarkdown(w io.Writer, result *model.ProcessingResult) error {
	var b strings.Builder

	b.WriteString("# Inferred Architecture\n\n")
	if !result.Success {
		b.WriteString("**Processing failed.**\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", e.Code, e.Message)
		}
		b.WriteString("\n")
	}

	if reqs := result.Requirements; reqs != nil {
		b.WriteString("## Requirements\n\n")
		writeRequirementList(&b, "Functional", reqs.Functional)
		writeRequirementList(&b, "Non-functional", reqs.NonFunctional)
		writeRequirementList(&b, "Constraints", reqs.Constraints)
		if len(reqs.Entities) > 0 {
			fmt.Fprintf(&b, "**Entities:** %s\n\n", strings.Join(reqs.Entities, ", "))
		}
	}

	if arch := result.Architecture; arch != nil {
		fmt.Fprintf(&b, "## Components (version %d)\n\n", arch.Version)
		for _, c := range arch.Components {
			fmt.Fprintf(&b, "### %s (`%s`, %s)\n\n", c.Name, c.ID, c.Kind)
			for _, resp := range c.Responsibilities {
				fmt.Fprintf(&b, "- %s\n", resp)
			}
			if len(c.SourceRequirements) > 0 {
				fmt.Fprintf(&b, "\nSources: %s\n", strings.Join(c.SourceRequirements, ", "))
			}
			if len(c.Tags) > 0 {
				b.WriteString("\n")
				for _, k := range sortedKeys(c.Tags) {
					fmt.Fprintf(&b, "- *%s*: %s\n", k, c.Tags[k])
				}
			}
			b.WriteString("\n")
		}

		if len(arch.Relationships) > 0 {
			b.WriteString("## Relationships\n\n")
			for _, rel := range arch.Relationships {
				fmt.Fprintf(&b, "- `%s` %s `%s`\n", rel.From, rel.Kind, rel.To)
			}
			b.WriteString("\n")
		}

		if len(arch.Tags) > 0 {
			b.WriteString("## Architecture Tags\n\n")
			for _, k := range sortedKeys(arch.Tags) {
				fmt.Fprintf(&b, "- **%s**: %s\n", k, arch.Tags[k])
			}
			b.WriteString("\n")
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "- `%s`: %s\n", warning.Code, warning.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary writes a terse one-screen overview
func RenderSummary(w io.Writer, result *model.ProcessingResult) error {
	var b strings.Builder

	status := "ok"
	if !result.Success {
		status = "failed"
	}
	fmt.Fprintf(&b, "status: %s\n", status)

	if reqs := result.Requirements; reqs != nil {
		fmt.Fprintf(&b, "requirements: %d functional, %d non-functional, %d constraints\n",
			len(reqs.Functional), len(reqs.NonFunctional), len(reqs.Constraints))
	}
	if arch := result.Architecture; arch != nil {
		fmt.Fprintf(&b, "architecture: v%d, %d components, %d relationships\n",
			arch.Version, len(arch.Components), len(arch.Relationships))
		for _, c := range arch.Components {
			fmt.Fprintf(&b, "  %-10s %-28s %s\n", c.Kind, c.Name, c.ID)
		}
	}
	for _, e := range result.Errors {
		fmt.Fprintf(&b, "error: %s: %s\n", e.Code, e.Message)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "warning: %s: %s\n", warning.Code, warning.Message)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderDiff writes an evolution diff in the summary style
func RenderDiff(w io.Writer, diff *model.DiffReport) error {
	var b strings.Builder
	for _, id := range diff.Added {
		fmt.Fprintf(&b, "added:   %s\n", id)
	}
	for _, id := range diff.Updated {
		fmt.Fprintf(&b, "updated: %s\n", id)
	}
	for _, id := range diff.Removed {
		fmt.Fprintf(&b, "removed: %s\n", id)
	}
	if len(diff.Added)+len(diff.Updated)+len(diff.Removed) == 0 {
		b.WriteString("no changes\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRequirementList(b *strings.Builder, title string, reqs []model.Requirement) {
	if len(reqs) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", title)
	for _, req := range reqs {
		fmt.Fprintf(b, "- `%s` %s\n", req.ID, req.Text)
	}
	b.WriteString("\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
