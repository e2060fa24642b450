// Package pipeline implements the three-stage evaluation pipeline:
// extraction, classification and evaluation run strictly in sequence over
// the shared store, each fanning its eligible items over a bounded worker
// pool. Per-item failures are isolated; stage-level errors abort the run
// with partial statistics.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/extract"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/resilience"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/store"
)

// Config tunes one pipeline instance.
type Config struct {
	// BatchSize caps in-flight items per stage (one external call per
	// worker). The pool is I/O-bound; size it to the provider's concurrency
	// budget, not core count.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	// FilesRoot is the directory holding per-idea attachment directories.
	FilesRoot string `yaml:"files_root" mapstructure:"files_root"`

	// RetryAttempts and RetryBackoff shape the classification stage's
	// rate-limit retry: attempts total attempts with backoff, 2*backoff, ...
	// Extraction and evaluation deliberately run single-attempt; their
	// failed items are re-selected by the next run instead.
	RetryAttempts int           `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 8
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 5 * time.Second
	}
	return c
}

// Pipeline orchestrates the three stage runners.
type Pipeline struct {
	store      store.Store
	extractor  extract.Extractor
	classifier IdeaClassifier
	evaluator  IdeaEvaluator
	cfg        Config
	progress   ProgressFunc
}

// New builds a Pipeline. progress may be nil.
func New(st store.Store, ex extract.Extractor, cl IdeaClassifier, ev IdeaEvaluator, cfg Config, progress ProgressFunc) *Pipeline {
	return &Pipeline{
		store:      st,
		extractor:  ex,
		classifier: cl,
		evaluator:  ev,
		cfg:        cfg.withDefaults(),
		progress:   progress,
	}
}

// RunFull runs extraction, classification and evaluation in order. The
// returned stats always carry whatever stages completed; a stage-level
// error aborts the remaining stages and is propagated with those partial
// stats intact.
func (p *Pipeline) RunFull(ctx context.Context) (*model.PipelineStats, error) {
	zap.L().Info("starting full evaluation pipeline")
	stats := &model.PipelineStats{}

	p.report("extraction", 0, "Starting extraction stage")
	extraction, err := p.RunExtraction(ctx)
	stats.Extraction = extraction
	if err != nil {
		p.report("error", 0, "Pipeline failed: "+err.Error())
		return stats, err
	}

	p.report("classification", 0, "Starting classification stage")
	classification, err := p.RunClassification(ctx)
	stats.Classification = classification
	if err != nil {
		p.report("error", 0, "Pipeline failed: "+err.Error())
		return stats, err
	}

	p.report("evaluation", 0, "Starting evaluation stage")
	evaluation, err := p.RunEvaluation(ctx)
	stats.Evaluation = evaluation
	if err != nil {
		p.report("error", 0, "Pipeline failed: "+err.Error())
		return stats, err
	}

	p.report("complete", 100, "Pipeline complete")
	zap.L().Info("full pipeline complete")
	return stats, nil
}

// RunExtraction processes every extraction-eligible idea.
func (p *Pipeline) RunExtraction(ctx context.Context) (model.StageStats, error) {
	runner := &stageRunner{
		stage:     model.StageExtraction,
		batchSize: p.cfg.BatchSize,
		store:     p.store,
		selectFn:  p.store.SelectForExtraction,
		process:   p.extractIdea,
		retry:     resilience.NoRetry(),
		progress:  p.progress,
	}
	return runner.Run(ctx)
}

// RunClassification processes every classification-eligible idea. This is
// the only stage with internal retry: rate-limit-class errors are retried
// with linear backoff, everything else fails the item immediately.
func (p *Pipeline) RunClassification(ctx context.Context) (model.StageStats, error) {
	retry := resilience.RateLimitRetry(p.cfg.RetryAttempts, p.cfg.RetryBackoff)
	retry.OnRetry = resilience.RetryLogger(string(model.StageClassification), "classify")

	runner := &stageRunner{
		stage:     model.StageClassification,
		batchSize: p.cfg.BatchSize,
		store:     p.store,
		selectFn:  p.store.SelectForClassification,
		process: func(ctx context.Context, idea model.Idea) error {
			result, err := p.classifier.Classify(ctx, idea)
			if err != nil {
				return err
			}
			return p.store.UpdateClassification(ctx, idea.ID, result)
		},
		retry:    retry,
		progress: p.progress,
	}
	return runner.Run(ctx)
}

// RunEvaluation processes every evaluation-eligible idea. The active rubric
// set is read once and held fixed for the whole run; an empty set is a
// configuration error that aborts the stage before any item is touched.
func (p *Pipeline) RunEvaluation(ctx context.Context) (model.StageStats, error) {
	rubrics, err := p.store.ActiveRubrics(ctx)
	if err != nil {
		return model.StageStats{}, eris.Wrap(err, "evaluation: load rubrics")
	}
	if len(rubrics) == 0 {
		return model.StageStats{}, eris.New("evaluation: no active rubrics configured")
	}

	runner := &stageRunner{
		stage:     model.StageEvaluation,
		batchSize: p.cfg.BatchSize,
		store:     p.store,
		selectFn:  p.store.SelectForEvaluation,
		process: func(ctx context.Context, idea model.Idea) error {
			result, err := p.evaluator.Evaluate(ctx, idea, rubrics)
			if err != nil {
				return err
			}
			return p.store.UpdateEvaluation(ctx, idea.ID, result)
		},
		retry:    resilience.NoRetry(),
		progress: p.progress,
	}
	return runner.Run(ctx)
}

func (p *Pipeline) report(stage string, progress int, message string) {
	if p.progress == nil {
		return
	}
	p.progress(Progress{Stage: stage, Progress: progress, Message: message})
}
