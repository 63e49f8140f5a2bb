package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/archigram/archigram/internal/model"
)

func sampleResult() *model.ProcessingResult {
	return &model.ProcessingResult{
		Success: true,
		Requirements: &model.RequirementSet{
			Functional: []model.Requirement{{ID: "FR-1", Text: "Store orders"}},
			Entities:   []string{"database", "order"},
		},
		Architecture: &model.Architecture{
			Version: 1,
			Components: []model.Component{
				{
					ID:                 "svc-00000001",
					Kind:               model.KindService,
					Name:               "OrderService",
					Responsibilities:   []string{"Manage orders"},
					SourceRequirements: []string{"FR-1"},
				},
			},
		},
		Warnings: []model.Warning{
			{Code: model.WarnRequirementUncovered, Message: "FR-9 maps to no component"},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded model.ProcessingResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if !decoded.Success || decoded.Architecture.Version != 1 {
		t.Errorf("Round-trip lost data: %+v", decoded)
	}
	if decoded.Architecture.Components[0].SourceRequirements[0] != "FR-1" {
		t.Error("Expected source requirement ids to survive JSON")
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderYAML(&buf, sampleResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "OrderService") {
		t.Errorf("Expected component name in YAML, got %q", buf.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, sampleResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	for _, expected := range []string{"# Inferred Architecture", "OrderService", "FR-1", "## Warnings"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected %q in markdown output", expected)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "status: ok") {
		t.Errorf("Expected status line, got %q", out)
	}
	if !strings.Contains(out, "1 components") {
		t.Errorf("Expected component count, got %q", out)
	}
}

func TestRenderer_UnknownFormat(t *testing.T) {
	renderer := NewRenderer(model.OutputConfig{Format: "carrier-pigeon"})

	var buf bytes.Buffer
	if err := renderer.Render(&buf, sampleResult()); err == nil {
		t.Fatal("Expected error for unknown format")
	}
}

func TestRenderer_DefaultsToJSON(t *testing.T) {
	renderer := NewRenderer(model.OutputConfig{})

	var buf bytes.Buffer
	if err := renderer.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Error("Expected valid JSON by default")
	}
}

func TestRenderDiff(t *testing.T) {
	var buf bytes.Buffer
	diff := &model.DiffReport{
		Added:   []string{"svc-aaaa"},
		Updated: []string{"svc-bbbb"},
		Removed: []string{"svc-cccc"},
	}
	if err := RenderDiff(&buf, diff); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	for _, expected := range []string{"added:   svc-aaaa", "updated: svc-bbbb", "removed: svc-cccc"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected %q in diff output, got %q", expected, out)
		}
	}

	buf.Reset()
	if err := RenderDiff(&buf, &model.DiffReport{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "no changes") {
		t.Errorf("Expected 'no changes', got %q", buf.String())
	}
}
