package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedIdeas(t *testing.T, s *SQLiteStore, n int) []model.Idea {
	t.Helper()
	ctx := context.Background()

	ideas := make([]model.Idea, n)
	for i := range ideas {
		ideas[i] = model.Idea{
			Title:   "Idea " + string(rune('A'+i)),
			Summary: "summary",
		}
	}
	inserted, err := s.InsertIdeas(ctx, ideas)
	require.NoError(t, err)
	require.Equal(t, n, inserted)

	stored, err := s.SelectForExtraction(ctx)
	require.Len(t, stored, n)
	require.NoError(t, err)
	return stored
}

func TestSQLiteStore_StageEligibilityFlow(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	ideas := seedIdeas(t, s, 3)

	// Nothing is classification-eligible before extraction completes.
	eligible, err := s.SelectForClassification(ctx)
	require.NoError(t, err)
	assert.Empty(t, eligible)

	// Complete extraction for two ideas, fail the third.
	require.NoError(t, s.UpdateExtraction(ctx, ideas[0].ID, "content a", model.ContentTypeText))
	require.NoError(t, s.UpdateExtraction(ctx, ideas[1].ID, "content b", model.ContentTypeText))
	require.NoError(t, s.MarkStageFailed(ctx, ideas[2].ID, model.StageExtraction))

	// The failed idea stays extraction-eligible for a later run.
	extractable, err := s.SelectForExtraction(ctx)
	require.NoError(t, err)
	require.Len(t, extractable, 1)
	assert.Equal(t, ideas[2].ID, extractable[0].ID)
	assert.Equal(t, model.StatusFailed, extractable[0].ExtractionStatus)

	// Only completed-extraction ideas flow to classification.
	eligible, err = s.SelectForClassification(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 2)

	require.NoError(t, s.UpdateClassification(ctx, ideas[0].ID, model.Classification{
		PrimaryTheme:    "AI & Machine Learning",
		SecondaryThemes: []string{"Automation & RPA"},
		Industry:        "Technology",
		Technologies:    []string{"Go"},
	}))
	require.NoError(t, s.MarkStageFailed(ctx, ideas[1].ID, model.StageClassification))

	// Failed classification is re-selected next run; completed is not.
	eligible, err = s.SelectForClassification(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, ideas[1].ID, eligible[0].ID)

	// Evaluation sees only the classified idea.
	evaluable, err := s.SelectForEvaluation(ctx)
	require.NoError(t, err)
	require.Len(t, evaluable, 1)
	assert.Equal(t, ideas[0].ID, evaluable[0].ID)
	assert.Equal(t, "AI & Machine Learning", evaluable[0].PrimaryTheme)

	require.NoError(t, s.UpdateEvaluation(ctx, ideas[0].ID, model.Evaluation{
		Scores:         map[string]float64{"Innovation": 8, "Feasibility": 7},
		WeightedTotal:  7.6,
		Recommendation: model.RecommendGo,
		KeyStrengths:   []string{"clear value"},
		KeyConcerns:    []string{"scaling"},
	}))

	got, err := s.GetIdea(ctx, ideas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.EvaluationStatus)
	assert.InDelta(t, 7.6, got.WeightedTotal, 1e-9)
	assert.Equal(t, model.RecommendGo, got.Recommendation)
	assert.Equal(t, map[string]float64{"Innovation": 8, "Feasibility": 7}, got.RubricScores)
	assert.Equal(t, []string{"clear value"}, got.KeyStrengths)
}

func TestSQLiteStore_GetIdea_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetIdea(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_PipelineCounts(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	ideas := seedIdeas(t, s, 2)

	require.NoError(t, s.UpdateExtraction(ctx, ideas[0].ID, "c", model.ContentTypeText))
	require.NoError(t, s.MarkStageFailed(ctx, ideas[1].ID, model.StageExtraction))

	counts, err := s.PipelineCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.Extracted)
	assert.Equal(t, 1, counts.ExtractionFailed)
	assert.Equal(t, 0, counts.Evaluated)
}

func TestSQLiteStore_Rubrics(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRubric(ctx, &model.Rubric{Name: "Innovation", Weight: 30, IsActive: true, DisplayOrder: 1}))
	require.NoError(t, s.UpsertRubric(ctx, &model.Rubric{Name: "Feasibility", Weight: 20, IsActive: true, DisplayOrder: 2}))
	require.NoError(t, s.UpsertRubric(ctx, &model.Rubric{Name: "Retired", Weight: 50, IsActive: false, DisplayOrder: 3}))

	active, err := s.ActiveRubrics(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Innovation", active[0].Name)

	all, err := s.ListRubrics(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Upsert by name updates in place.
	require.NoError(t, s.UpsertRubric(ctx, &model.Rubric{Name: "Innovation", Weight: 40, IsActive: true, DisplayOrder: 1}))
	active, err = s.ActiveRubrics(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, 40, active[0].Weight)
}

func TestSQLiteStore_ModelConfigActivation(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.ActiveModelConfig(ctx, model.PurposeEvaluation)
	require.ErrorIs(t, err, ErrNotFound)

	first := &model.ModelConfig{
		Provider: "anthropic",
		Name:     "default",
		Model:    "claude-sonnet-4-5",
		Settings: map[string]string{"max_tokens": "2048"},
		Purpose:  model.PurposeEvaluation,
		IsActive: true,
	}
	require.NoError(t, s.SaveModelConfig(ctx, first))

	second := &model.ModelConfig{
		Provider: "anthropic",
		Name:     "fast",
		Model:    "claude-haiku-4-5",
		Purpose:  model.PurposeEvaluation,
		IsActive: true,
	}
	require.NoError(t, s.SaveModelConfig(ctx, second))

	// Activating a new config deactivates the previous one for the purpose.
	active, err := s.ActiveModelConfig(ctx, model.PurposeEvaluation)
	require.NoError(t, err)
	assert.Equal(t, "fast", active.Name)
}

func TestSQLiteStore_CreateSubmission(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	sub := &model.Submission{
		Filename:    "ideas.csv",
		TotalRows:   10,
		ValidRows:   9,
		InvalidRows: 1,
		Status:      model.SubmissionValidated,
	}
	require.NoError(t, s.CreateSubmission(ctx, sub))
	assert.NotEmpty(t, sub.ID)
}
