package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/archigram/archigram/internal/model"
)

// Job is one transcript to process: a path on disk plus the
// conversation id it should produce.
type Job struct {
	Path           string
	ConversationID string
}

// Outcome pairs a job with its processing result
type Outcome struct {
	Job    Job
	Result *model.ProcessingResult
	Err    error
}

// ProcessFunc loads and processes one transcript
type ProcessFunc func(ctx context.Context, job Job) (*model.ProcessingResult, error)

// Pool fans transcript jobs out over a fixed number of workers.
// Results arrive in completion order, not submission order.
type Pool struct {
	workers int
	process ProcessFunc
	logger  *zap.Logger
}

// NewPool creates a worker pool. Worker count below 1 is clamped to 1.
func NewPool(workers int, process ProcessFunc, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		workers: workers,
		process: process,
		logger:  logger,
	}
}

// Run processes all jobs and returns once every outcome is collected.
// A cancelled context stops dispatch; in-flight jobs still finish and
// report their outcome.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Outcome {
	jobCh := make(chan Job)
	outCh := make(chan Outcome, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobCh {
				p.logger.Debug("processing transcript",
					zap.Int("worker", id),
					zap.String("path", job.Path))
				result, err := p.process(ctx, job)
				outCh <- Outcome{Job: job, Result: result, Err: err}
			}
		}(i)
	}

	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				outCh <- Outcome{Job: job, Err: ctx.Err()}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]Outcome, 0, len(jobs))
	for outcome := range outCh {
		outcomes = append(outcomes, outcome)
		if len(outcomes) == len(jobs) {
			break
		}
	}
	return outcomes
}
