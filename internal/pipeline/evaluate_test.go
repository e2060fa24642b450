package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

func twoEqualRubrics() []model.Rubric {
	return []model.Rubric{
		{Name: "Innovation", Weight: 50},
		{Name: "Feasibility", Weight: 50},
	}
}

func TestEvaluator_WeightedTotalAndRecommendation(t *testing.T) {
	client := &fakeChatClient{text: `{"scores":{"Innovation":8,"Feasibility":6},"key_strengths":["novel"],"key_concerns":["scope"]}`}
	evaluator := NewEvaluator(client)

	got, err := evaluator.Evaluate(context.Background(), model.Idea{ID: "i1"}, twoEqualRubrics())
	require.NoError(t, err)
	assert.InDelta(t, 7.0, got.WeightedTotal, 1e-9)
	assert.Equal(t, model.RecommendConsider, got.Recommendation)
	assert.Equal(t, []string{"novel"}, got.KeyStrengths)
}

func TestEvaluator_TransportErrorPropagates(t *testing.T) {
	client := &fakeChatClient{err: errors.New("connection reset")}
	evaluator := NewEvaluator(client)

	_, err := evaluator.Evaluate(context.Background(), model.Idea{ID: "i9"}, twoEqualRubrics())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluate: chat for idea i9")
}

func TestEvaluator_ParseFallbackRecordsDecision(t *testing.T) {
	client := &fakeChatClient{text: "I cannot evaluate this idea."}
	evaluator := NewEvaluator(client)

	got, err := evaluator.Evaluate(context.Background(), model.Idea{ID: "i1"}, twoEqualRubrics())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Innovation": 5.0, "Feasibility": 5.0}, got.Scores)
	assert.InDelta(t, 5.0, got.WeightedTotal, 1e-9)
	assert.Equal(t, model.RecommendNoGo, got.Recommendation)
	assert.Equal(t, []string{"Failed to parse evaluation response"}, got.KeyConcerns)
}

func TestParseEvaluation_ClampAndDefault(t *testing.T) {
	rubrics := []model.Rubric{
		{Name: "Innovation", Weight: 40},
		{Name: "Feasibility", Weight: 30},
		{Name: "Impact", Weight: 30},
	}
	text := `{"scores":{"Innovation":14,"Feasibility":0.2},"key_strengths":null,"key_concerns":null}`

	got := parseEvaluation(text, rubrics)
	assert.Equal(t, 10.0, got.Scores["Innovation"], "scores above range clamp to 10")
	assert.Equal(t, 1.0, got.Scores["Feasibility"], "scores below range clamp to 1")
	assert.Equal(t, 5.0, got.Scores["Impact"], "missing scores default to 5")
	assert.Equal(t, []string{}, got.KeyStrengths)
	assert.Equal(t, []string{}, got.KeyConcerns)
}

func TestParseEvaluation_ExtraScoresIgnored(t *testing.T) {
	rubrics := []model.Rubric{{Name: "Innovation", Weight: 100}}
	text := `{"scores":{"Innovation":7,"Vibes":10}}`

	got := parseEvaluation(text, rubrics)
	assert.Equal(t, map[string]float64{"Innovation": 7.0}, got.Scores)
}

func TestWeightedTotal(t *testing.T) {
	tests := []struct {
		name    string
		scores  map[string]float64
		rubrics []model.Rubric
		want    float64
	}{
		{
			name:    "equal weights average",
			scores:  map[string]float64{"A": 8, "B": 6},
			rubrics: []model.Rubric{{Name: "A", Weight: 50}, {Name: "B", Weight: 50}},
			want:    7.0,
		},
		{
			name:    "uneven weights",
			scores:  map[string]float64{"A": 10, "B": 5},
			rubrics: []model.Rubric{{Name: "A", Weight: 75}, {Name: "B", Weight: 25}},
			want:    8.75,
		},
		{
			name:    "weights not summing to one still normalize",
			scores:  map[string]float64{"A": 8, "B": 6},
			rubrics: []model.Rubric{{Name: "A", Weight: 30}, {Name: "B", Weight: 30}},
			want:    7.0,
		},
		{
			name:    "missing score counts as default",
			scores:  map[string]float64{"A": 9},
			rubrics: []model.Rubric{{Name: "A", Weight: 50}, {Name: "B", Weight: 50}},
			want:    7.0,
		},
		{
			name:    "zero total weight guards to zero",
			scores:  map[string]float64{"A": 9},
			rubrics: []model.Rubric{{Name: "A", Weight: 0}},
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, weightedTotal(tt.scores, tt.rubrics), 1e-9)
		})
	}
}

func TestRecommendationThresholds(t *testing.T) {
	assert.Equal(t, model.RecommendGo, model.RecommendationFor(7.5))
	assert.Equal(t, model.RecommendConsider, model.RecommendationFor(7.499))
	assert.Equal(t, model.RecommendConsider, model.RecommendationFor(5.5))
	assert.Equal(t, model.RecommendNoGo, model.RecommendationFor(5.499))
}
