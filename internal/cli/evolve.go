package cli

import (
	"context"
	"errors"
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
	evolveID       string
	evolveFormat   string
	evolveOut      string
	evolveTimeout  time.Duration
	evolveTry      bool
	evolveRollback int
	evolveLLM      bool
	evolveProvider string
	evolveModel    string
)

// evolveCmd represents the evolve command
var evolveCmd = &cobra.Command{
	Use:   "evolve <base-transcript> <delta-transcript>...",
	Short: "Evolve an architecture through successive transcript deltas",
	Long: `Evolve processes the base transcript into version 1 of an
architecture, then applies each delta transcript as one evolution
step. The merge is monotonic: components grow with new statements and
are only removed by explicit retractions ("we no longer need ...",
"remove the ...").

Example:
  archigram evolve base.txt sprint2.txt sprint3.txt
  archigram evolve base.txt delta.txt --rollback 1 --format markdown`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEvolve,
}

func init() {
	rootCmd.AddCommand(evolveCmd)

	evolveCmd.Flags().StringVar(&evolveID, "id", "", "conversation id (default: derived from the base file)")
	evolveCmd.Flags().StringVar(&evolveFormat, "format", "", "output format: json, yaml, markdown, summary")
	evolveCmd.Flags().StringVar(&evolveOut, "out", "", "output file for the final architecture (default: stdout)")
	evolveCmd.Flags().DurationVar(&evolveTimeout, "timeout", 5*time.Minute, "overall timeout")
	evolveCmd.Flags().BoolVar(&evolveTry, "try", false, "fail fast instead of waiting on a concurrent evolution")
	evolveCmd.Flags().IntVar(&evolveRollback, "rollback", 0, "after all deltas, roll back to this version")

	evolveCmd.Flags().BoolVar(&evolveLLM, "llm", false, "enable LLM-assisted component naming")
	evolveCmd.Flags().StringVar(&evolveProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	evolveCmd.Flags().StringVar(&evolveModel, "llm-model", "", "LLM model name")
}

func runEvolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evolveTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if evolveFormat != "" {
		cfg.Output.Format = evolveFormat
	}
	if err := applyLLMFlags(cfg, evolveLLM, evolveProvider, evolveModel); err != nil {
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
	conv, err := loader.LoadFile(args[0], evolveID)
	if err != nil {
		return err
	}

	result := svc.ProcessConversation(ctx, conv)
	if !result.Success {
		return fmt.Errorf("base transcript failed with %d error(s)", len(result.Errors))
	}
	fmt.Fprintf(os.Stderr, "v1: %d components from %s\n", len(result.Architecture.Components), args[0])

	arch := result.Architecture
	for _, deltaPath := range args[1:] {
		delta, err := loader.LoadFile(deltaPath, conv.ID)
		if err != nil {
			return err
		}

		var diff *model.DiffReport
		if evolveTry {
			arch, diff, _, err = svc.TryEvolve(ctx, conv.ID, delta.Statements)
		} else {
			arch, diff, _, err = svc.Evolve(ctx, conv.ID, delta.Statements)
		}
		if err != nil {
			var conflict *model.EvolutionConflictError
			if errors.As(err, &conflict) {
				return fmt.Errorf("evolution for %s already in flight; retry without --try to wait", conflict.ConversationID)
			}
			return err
		}

		fmt.Fprintf(os.Stderr, "v%d: %s\n", arch.Version, deltaPath)
		if err := pipeline.RenderDiff(os.Stderr, diff); err != nil {
			return err
		}
	}

	if evolveRollback > 0 {
		arch, err = svc.Rollback(conv.ID, evolveRollback)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "rolled back to v%d\n", arch.Version)
	}

	out, closeOut, err := openOutput(evolveOut)
	if err != nil {
		return err
	}
	defer closeOut()

	renderer := pipeline.NewRenderer(cfg.Output)
	return renderer.Render(out, &model.ProcessingResult{
		Success:      true,
		Architecture: arch,
	})
}
