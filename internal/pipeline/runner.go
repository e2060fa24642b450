package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/resilience"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/store"
)

// stageRunner fans a batch of eligible ideas over a bounded worker pool.
// It is instantiated once per stage with that stage's selection query,
// per-item transform and retry policy.
type stageRunner struct {
	stage     model.Stage
	batchSize int
	store     store.Store
	selectFn  func(ctx context.Context) ([]model.Idea, error)

	// process runs the stage transform for one idea and writes its result.
	// Any returned error marks the item failed; it never aborts the pool.
	process func(ctx context.Context, idea model.Idea) error

	retry    resilience.RetryConfig
	progress ProgressFunc
}

// Run selects eligible items and processes them. Selection errors are
// stage-fatal; per-item errors are isolated into the failed counter.
// Processed is fixed at selection time: items inserted mid-run wait for
// the next run.
func (r *stageRunner) Run(ctx context.Context) (model.StageStats, error) {
	items, err := r.selectFn(ctx)
	if err != nil {
		return model.StageStats{}, err
	}

	total := len(items)
	if total == 0 {
		zap.L().Info("no eligible items", zap.String("stage", string(r.stage)))
		return model.StageStats{}, nil
	}

	zap.L().Info("stage starting",
		zap.String("stage", string(r.stage)),
		zap.Int("items", total),
		zap.Int("batch_size", r.batchSize),
	)

	var succeeded, failed, done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.batchSize)

	for _, idea := range items {
		g.Go(func() error {
			err := resilience.Do(gCtx, r.retry, func(ctx context.Context) error {
				return r.process(ctx, idea)
			})
			if err != nil {
				zap.L().Warn("item failed",
					zap.String("stage", string(r.stage)),
					zap.String("idea_id", idea.ID),
					zap.Error(err),
				)
				if markErr := r.store.MarkStageFailed(gCtx, idea.ID, r.stage); markErr != nil {
					zap.L().Error("could not mark item failed",
						zap.String("idea_id", idea.ID),
						zap.Error(markErr),
					)
				}
				failed.Add(1)
			} else {
				succeeded.Add(1)
			}

			r.report(int(done.Add(1)), total)
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	stats := model.StageStats{
		Processed: total,
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}
	zap.L().Info("stage complete",
		zap.String("stage", string(r.stage)),
		zap.Int("processed", stats.Processed),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (r *stageRunner) report(done, total int) {
	if r.progress == nil {
		return
	}
	// Integer truncation keeps 100 reserved for the last item: 249/250
	// reports 99, never an early 100.
	pct := done * 100 / total
	r.progress(Progress{
		Stage:    string(r.stage),
		Progress: pct,
		Message:  fmt.Sprintf("Processed %d/%d ideas", done, total),
	})
}
