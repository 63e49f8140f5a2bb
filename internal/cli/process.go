package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/archigram/archigram/internal/ingest"
	"github.com/archigram/archigram/internal/model"
	"github.com/archigram/archigram/internal/pipeline"
	"github.com/archigram/archigram/internal/service"
)

var (
	processID       string
	processFormat   string
	processOut      string
	processTimeout  time.Duration
	processLLM      bool
	processProvider string
	processModel    string
	processSummary  bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <transcript>",
	Short: "Process a conversation transcript into an architecture",
	Long: `Process reads a transcript file (one statement per line, with an
optional "speaker: " prefix), derives the requirement set and infers
the architecture it implies. Pass "-" to read from stdin.

Example:
  archigram process conversation.txt
  archigram process conversation.txt --format markdown --out arch.md
  archigram process conversation.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processID, "id", "", "conversation id (default: derived from the file)")
	processCmd.Flags().StringVar(&processFormat, "format", "", "output format: json, yaml, markdown, summary")
	processCmd.Flags().StringVar(&processOut, "out", "", "output file (default: stdout)")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 2*time.Minute, "overall processing timeout")
	processCmd.Flags().BoolVar(&processSummary, "summary", false, "print the conversation summary after the report")

	processCmd.Flags().BoolVar(&processLLM, "llm", false, "enable LLM-assisted component naming")
	processCmd.Flags().StringVar(&processProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	processCmd.Flags().StringVar(&processModel, "llm-model", "", "LLM model name")
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if processFormat != "" {
		cfg.Output.Format = processFormat
	}
	if err := applyLLMFlags(cfg, processLLM, processProvider, processModel); err != nil {
		return err
	}

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
	var conv *model.Conversation
	if path == "-" {
		conv, err = loader.Parse(os.Stdin, processID)
	} else {
		conv, err = loader.LoadFile(path, processID)
	}
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s (%d statements)\n\n", path, len(conv.Statements))
	}

	result := svc.ProcessConversation(ctx, conv)

	out, closeOut, err := openOutput(processOut)
	if err != nil {
		return err
	}
	defer closeOut()

	renderer := pipeline.NewRenderer(cfg.Output)
	if err := renderer.Render(out, result); err != nil {
		return err
	}

	if processSummary && result.Success {
		summary, err := svc.Summary(conv.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\n%s\n", summary)
	}

	if !result.Success {
		return fmt.Errorf("processing failed with %d error(s)", len(result.Errors))
	}
	return nil
}
