package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/extract"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/pkg/llm"
)

const (
	evaluateMaxTokens = 2000
	defaultScore      = 5.0
	minScore          = 1.0
	maxScore          = 10.0
)

// IdeaEvaluator scores one idea against a fixed rubric set.
type IdeaEvaluator interface {
	Evaluate(ctx context.Context, idea model.Idea, rubrics []model.Rubric) (model.Evaluation, error)
}

// Evaluator implements IdeaEvaluator against the chat capability. The
// rubric set is passed per call: the stage reads it once per run, so every
// item in a batch is scored against the same set.
type Evaluator struct {
	client llm.Client
}

// NewEvaluator builds an Evaluator backed by the given chat client.
func NewEvaluator(client llm.Client) *Evaluator {
	return &Evaluator{client: client}
}

func (e *Evaluator) Evaluate(ctx context.Context, idea model.Idea, rubrics []model.Rubric) (model.Evaluation, error) {
	resp, err := e.client.Chat(ctx, llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: evaluationPrompt(idea.EvaluationContent(), rubrics)}},
		MaxTokens: evaluateMaxTokens,
	})
	if err != nil {
		return model.Evaluation{}, eris.Wrapf(err, "evaluate: chat for idea %s", idea.ID)
	}

	result := parseEvaluation(resp.Text, rubrics)
	result.WeightedTotal = weightedTotal(result.Scores, rubrics)
	result.Recommendation = model.RecommendationFor(result.WeightedTotal)
	return result, nil
}

func evaluationPrompt(content string, rubrics []model.Rubric) string {
	var list strings.Builder
	for _, r := range rubrics {
		fmt.Fprintf(&list, "- %s (weight: %.2f)\n", r.Name, r.Fraction())
	}

	return fmt.Sprintf(`Evaluate the following hackathon idea using the provided rubrics. Score each rubric on a scale of 1-10.

IDEA CONTENT:
%s

EVALUATION RUBRICS:
%s
SCORING GUIDELINES:
- 1-3: Poor - Significant issues, not viable
- 4-5: Below Average - Has potential but major concerns
- 6-7: Good - Solid idea with some areas for improvement
- 8-9: Excellent - Strong idea with minor concerns
- 10: Outstanding - Exceptional idea, ready for investment

INSTRUCTIONS:
1. Score the idea on EACH rubric (1-10 scale)
2. Identify 3-5 key strengths of the idea
3. Identify 3-5 key concerns or areas for improvement
4. Be objective and specific in your assessment

Return your evaluation in the following JSON format:
{
    "scores": {"rubric name": 8.5},
    "key_strengths": ["Strength 1", "Strength 2", "Strength 3"],
    "key_concerns": ["Concern 1", "Concern 2", "Concern 3"]
}

IMPORTANT:
- Use exact rubric names from the list above
- Scores must be numbers between 1 and 10 (decimals allowed)
- Provide 3-5 strengths and 3-5 concerns`,
		content, list.String())
}

// parseEvaluation decodes a scoring response. Missing rubric scores default
// to 5.0 and out-of-range scores are clamped. An unparseable response falls
// back to all-5.0 scores with a diagnostic concern, so the decision is
// still recorded rather than silently dropped.
func parseEvaluation(text string, rubrics []model.Rubric) model.Evaluation {
	var raw struct {
		Scores       map[string]float64 `json:"scores"`
		KeyStrengths []string           `json:"key_strengths"`
		KeyConcerns  []string           `json:"key_concerns"`
	}

	if err := json.Unmarshal([]byte(extract.StripFence(text)), &raw); err != nil {
		zap.L().Warn("evaluation response not parseable, using default scores", zap.Error(err))
		return model.Evaluation{
			Scores:       defaultScores(rubrics),
			KeyStrengths: []string{},
			KeyConcerns:  []string{"Failed to parse evaluation response"},
		}
	}

	scores := make(map[string]float64, len(rubrics))
	for _, r := range rubrics {
		score, ok := raw.Scores[r.Name]
		if !ok {
			zap.L().Warn("missing rubric score, defaulting",
				zap.String("rubric", r.Name))
			scores[r.Name] = defaultScore
			continue
		}
		scores[r.Name] = clamp(score)
	}

	result := model.Evaluation{
		Scores:       scores,
		KeyStrengths: raw.KeyStrengths,
		KeyConcerns:  raw.KeyConcerns,
	}
	if result.KeyStrengths == nil {
		result.KeyStrengths = []string{}
	}
	if result.KeyConcerns == nil {
		result.KeyConcerns = []string{}
	}
	return result
}

func defaultScores(rubrics []model.Rubric) map[string]float64 {
	scores := make(map[string]float64, len(rubrics))
	for _, r := range rubrics {
		scores[r.Name] = defaultScore
	}
	return scores
}

func clamp(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// weightedTotal computes sum(score*weight)/sum(weight) over the rubric
// fractions, guarding a zero total weight to 0.0.
func weightedTotal(scores map[string]float64, rubrics []model.Rubric) float64 {
	var totalWeight, weightedSum float64
	for _, r := range rubrics {
		w := r.Fraction()
		totalWeight += w

		score, ok := scores[r.Name]
		if !ok {
			score = defaultScore
		}
		weightedSum += score * w
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}
