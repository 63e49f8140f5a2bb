package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/archigram/archigram/internal/ingest"
	"github.com/archigram/archigram/internal/model"
	"github.com/archigram/archigram/internal/pipeline"
	"github.com/archigram/archigram/internal/service"
	"github.com/archigram/archigram/internal/worker"
)

var (
	batchWorkers int
	batchOutDir  string
	batchFormat  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <transcript-or-dir>...",
	Short: "Process many transcripts concurrently",
	Long: `Batch processes every transcript given (directories are scanned for
.txt files) over a worker pool and writes one report per transcript.

Example:
  archigram batch transcripts/
  archigram batch a.txt b.txt c.txt --workers 8 --out-dir reports/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "worker count (default: from config)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for per-transcript reports (default: stdout summaries)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "report format: json, yaml, markdown, summary")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchFormat != "" {
		cfg.Output.Format = batchFormat
	}
	if batchWorkers > 0 {
		cfg.Concurrency.Workers = batchWorkers
	}
	cfg.LLM.Provider = "" // Batch runs are local-only; hints would rate-limit the pool

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := service.New(cfg, logger)
	if err != nil {
		return err
	}

	paths, err := collectTranscripts(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no transcripts found")
	}

	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	jobs := make([]worker.Job, 0, len(paths))
	for _, path := range paths {
		jobs = append(jobs, worker.Job{Path: path, ConversationID: conversationIDFromPath(path)})
	}

	loader := ingest.NewLoader(ingest.NewIngestor(cfg.Ingest))
	pool := worker.NewPool(cfg.Concurrency.Workers, func(ctx context.Context, job worker.Job) (*model.ProcessingResult, error) {
		conv, err := loader.LoadFile(job.Path, job.ConversationID)
		if err != nil {
			return nil, err
		}
		return svc.ProcessConversation(ctx, conv), nil
	}, logger)

	outcomes := pool.Run(ctx, jobs)
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Job.Path < outcomes[j].Job.Path })

	renderer := pipeline.NewRenderer(cfg.Output)
	failures := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", outcome.Job.Path, outcome.Err)
			continue
		}
		if !outcome.Result.Success {
			failures++
			fmt.Fprintf(os.Stderr, "FAIL %s: %d error(s)\n", outcome.Job.Path, len(outcome.Result.Errors))
		}

		if batchOutDir != "" {
			reportPath := filepath.Join(batchOutDir, outcome.Job.ConversationID+"."+reportExtension(cfg.Output.Format))
			f, err := os.Create(reportPath)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			renderErr := renderer.Render(f, outcome.Result)
			_ = f.Close()
			if renderErr != nil {
				return renderErr
			}
			fmt.Printf("%s -> %s\n", outcome.Job.Path, reportPath)
		} else {
			fmt.Printf("== %s\n", outcome.Job.Path)
			if err := pipeline.RenderSummary(os.Stdout, outcome.Result); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\n%d transcripts, %d failed\n", len(outcomes), failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d transcripts failed", failures, len(outcomes))
	}
	return nil
}

// collectTranscripts expands directories into their .txt files
func collectTranscripts(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func conversationIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func reportExtension(format string) string {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "yaml"
	case "markdown", "md":
		return "md"
	case "summary":
		return "txt"
	default:
		return "json"
	}
}
