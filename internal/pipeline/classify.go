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
	classifyTemperature = 0.3
	classifyMaxTokens   = 1000
	maxSecondaryThemes  = 3
)

// IdeaClassifier assigns themes, an industry and technologies to one idea.
type IdeaClassifier interface {
	Classify(ctx context.Context, idea model.Idea) (model.Classification, error)
}

// Classifier implements IdeaClassifier against the chat capability.
//
// Parse failures are absorbed into the default classification; only a
// failed call (network, auth, rate limit) propagates as an item error.
type Classifier struct {
	client llm.Client
}

// NewClassifier builds a Classifier backed by the given chat client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) Classify(ctx context.Context, idea model.Idea) (model.Classification, error) {
	temp := classifyTemperature
	resp, err := c.client.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "user", Content: classificationPrompt(idea.PromptContent())}},
		Temperature: &temp,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		return model.Classification{}, eris.Wrapf(err, "classify: chat for idea %s", idea.ID)
	}

	return parseClassification(resp.Text), nil
}

func classificationPrompt(content string) string {
	var themes strings.Builder
	for _, theme := range model.AllThemes() {
		fmt.Fprintf(&themes, "- %s: %s\n", theme, model.ThemeDescription(theme))
	}

	var industries strings.Builder
	for _, industry := range model.Industries {
		fmt.Fprintf(&industries, "- %s\n", industry)
	}

	return fmt.Sprintf(`Analyze the following hackathon idea and classify it by theme, industry, and technologies.

IDEA CONTENT:
%s

AVAILABLE THEMES:
%s
AVAILABLE INDUSTRIES:
%s
INSTRUCTIONS:
1. Select ONE primary theme that best represents the core focus of the idea
2. Select 0-3 secondary themes that are also relevant (empty if the idea is focused on one theme)
3. Select ONE primary industry that would benefit most from this idea
4. Extract 3-7 specific technologies, tools, frameworks, or platforms mentioned or implied in the idea

Return your analysis in the following JSON format:
{
    "primary_theme": "theme name",
    "secondary_themes": ["theme1", "theme2"],
    "industry": "industry name",
    "technologies": ["tech1", "tech2", "tech3"]
}

IMPORTANT:
- Use exact theme names from the list above
- Use exact industry names from the list above
- Be specific with technologies (e.g., "TensorFlow" not just "AI")
- Secondary themes should be genuinely relevant, not just loosely related`,
		content, themes.String(), industries.String())
}

// parseClassification decodes and validates a classification response.
// Unknown primary themes downgrade to "Other"; unknown secondary themes are
// dropped silently. A response that is not the expected shape yields the
// default classification rather than an error.
func parseClassification(text string) model.Classification {
	var raw struct {
		PrimaryTheme    string   `json:"primary_theme"`
		SecondaryThemes []string `json:"secondary_themes"`
		Industry        string   `json:"industry"`
		Technologies    []string `json:"technologies"`
	}

	if err := json.Unmarshal([]byte(extract.StripFence(text)), &raw); err != nil {
		zap.L().Warn("classification response not parseable, using default", zap.Error(err))
		return model.DefaultClassification()
	}

	result := model.Classification{
		PrimaryTheme:    raw.PrimaryTheme,
		SecondaryThemes: []string{},
		Industry:        raw.Industry,
		Technologies:    raw.Technologies,
	}

	if !model.ValidTheme(result.PrimaryTheme) {
		zap.L().Warn("invalid primary theme, downgrading to Other",
			zap.String("theme", result.PrimaryTheme))
		result.PrimaryTheme = model.ThemeOther
	}

	for _, theme := range raw.SecondaryThemes {
		if !model.ValidTheme(theme) {
			continue
		}
		result.SecondaryThemes = append(result.SecondaryThemes, theme)
		if len(result.SecondaryThemes) == maxSecondaryThemes {
			break
		}
	}

	if result.Industry == "" {
		result.Industry = model.IndustryOther
	}
	if result.Technologies == nil {
		result.Technologies = []string{}
	}

	return result
}
