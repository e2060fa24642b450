// Package store persists ideas, rubrics and model configurations, and
// exposes the stage-eligibility queries the pipeline runs on.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = eris.New("store: not found")

// IdeaFilter specifies criteria for listing ideas.
type IdeaFilter struct {
	EvaluationStatus model.StageStatus    `json:"evaluation_status,omitempty"`
	Recommendation   model.Recommendation `json:"recommendation,omitempty"`
	SubmissionID     string               `json:"submission_id,omitempty"`
	Limit            int                  `json:"limit,omitempty"`
	Offset           int                  `json:"offset,omitempty"`
}

// Store defines the persistence interface for the evaluation pipeline.
//
// The three SelectFor* queries encode stage eligibility: an item is
// eligible when its own stage status is unset, pending or failed, and the
// upstream stage (if any) has completed. Failed items are deliberately
// re-selected so a later run retries them.
type Store interface {
	// Ideas
	InsertIdeas(ctx context.Context, ideas []model.Idea) (int, error)
	GetIdea(ctx context.Context, id string) (*model.Idea, error)
	ListIdeas(ctx context.Context, filter IdeaFilter) ([]model.Idea, error)

	// Submissions
	CreateSubmission(ctx context.Context, sub *model.Submission) error

	// Stage selection
	SelectForExtraction(ctx context.Context) ([]model.Idea, error)
	SelectForClassification(ctx context.Context) ([]model.Idea, error)
	SelectForEvaluation(ctx context.Context) ([]model.Idea, error)

	// Stage results
	UpdateExtraction(ctx context.Context, ideaID, content, contentType string) error
	UpdateClassification(ctx context.Context, ideaID string, c model.Classification) error
	UpdateEvaluation(ctx context.Context, ideaID string, e model.Evaluation) error
	MarkStageFailed(ctx context.Context, ideaID string, stage model.Stage) error

	// Rubrics and model configuration
	ActiveRubrics(ctx context.Context) ([]model.Rubric, error)
	ListRubrics(ctx context.Context, activeOnly bool) ([]model.Rubric, error)
	UpsertRubric(ctx context.Context, r *model.Rubric) error
	ActiveModelConfig(ctx context.Context, purpose model.ModelPurpose) (*model.ModelConfig, error)
	SaveModelConfig(ctx context.Context, mc *model.ModelConfig) error

	// Counters
	PipelineCounts(ctx context.Context) (*model.PipelineCounts, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
