package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archigram/archigram/internal/ingest"
	"github.com/archigram/archigram/internal/model"
	"github.com/archigram/archigram/internal/service"
)

var analyzeJSON bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript>",
	Short: "Estimate conversation complexity without inferring an architecture",
	Long: `Analyze reads a transcript and reports how complex the implied
architecture is likely to be: statement and entity counts, a component
estimate, a 0-10 complexity score and advisory signals.

Example:
  archigram analyze conversation.txt
  archigram analyze conversation.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit the report as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.LLM.Provider = "" // Complexity analysis is local-only

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := service.New(cfg, logger)
	if err != nil {
		return err
	}

	loader := ingest.NewLoader(ingest.NewIngestor(cfg.Ingest))
	conv, err := loader.LoadFile(args[0], "")
	if err != nil {
		return err
	}

	report := svc.AnalyzeComplexity(conv)

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("statements:          %d\n", report.StatementCount)
	fmt.Printf("entities:            %d\n", report.EntityCount)
	fmt.Printf("component estimate:  %d\n", report.ComponentCountEstimate)
	fmt.Printf("total length:        %d chars (avg %.0f)\n", report.TotalLength, report.AverageLength)
	fmt.Printf("complexity score:    %.1f / 10\n", report.ComplexityScore)
	for _, kind := range []model.StatementType{model.StatementFunctional, model.StatementNonFunctional, model.StatementConstraint, model.StatementUnknown} {
		if n := report.StatementTypes[kind]; n > 0 {
			fmt.Printf("  %-16s %d\n", string(kind)+":", n)
		}
	}
	for _, signal := range report.Signals {
		fmt.Printf("signal [%s] %s: %s\n", signal.Severity, signal.Type, signal.Description)
	}
	return nil
}
