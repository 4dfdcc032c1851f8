package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent run in a batch.
type Job struct {
	Name    string
	Machine Machine
	Metrics []Metric
	Config  Config
}

// RunBatch runs every job on its own goroutine, at most limit at a time
// (limit <= 0 means unbounded). Results line up with jobs. The first
// failure cancels the remaining jobs.
func RunBatch(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			s := New(job.Machine)
			for _, m := range job.Metrics {
				s.AddMetric(m)
			}
			res, err := s.Run(gctx, job.Config)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
