package model

import (
	"strings"
	"time"
)

// StageStatus is the per-stage processing state of an idea. The zero value
// means the stage has never been attempted (NULL in the store).
type StageStatus string

const (
	StatusUnset     StageStatus = ""
	StatusPending   StageStatus = "pending"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
)

// Eligible reports whether an item with this status should be picked up by
// its stage. Failed items are re-selected so a later run can retry them.
func (s StageStatus) Eligible() bool {
	return s == StatusUnset || s == StatusPending || s == StatusFailed
}

// Stage identifies one of the three pipeline stages.
type Stage string

const (
	StageExtraction     Stage = "extraction"
	StageClassification Stage = "classification"
	StageEvaluation     Stage = "evaluation"
)

// AllStages returns the stages in pipeline order.
func AllStages() []Stage {
	return []Stage{StageExtraction, StageClassification, StageEvaluation}
}

// StatusColumn returns the store column holding this stage's status.
func (s Stage) StatusColumn() string {
	return string(s) + "_status"
}

// Content types produced by extraction.
const (
	ContentTypePrototype = "Prototype"
	ContentTypeText      = "Text"
)

// Idea is a single submitted idea moving through the evaluation pipeline.
// The three stage statuses are independent columns; a stage becomes eligible
// only once the upstream stage's status is completed.
type Idea struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id,omitempty"`

	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Description   string `json:"description,omitempty"`
	Challenge     string `json:"challenge,omitempty"`
	NoveltyRisks  string `json:"novelty_risks,omitempty"`
	ResponsibleAI string `json:"responsible_ai,omitempty"`

	ExtractedContent string `json:"extracted_content,omitempty"`
	ContentType      string `json:"content_type,omitempty"`

	ExtractionStatus     StageStatus `json:"extraction_status,omitempty"`
	ClassificationStatus StageStatus `json:"classification_status,omitempty"`
	EvaluationStatus     StageStatus `json:"evaluation_status,omitempty"`

	PrimaryTheme    string   `json:"primary_theme,omitempty"`
	SecondaryThemes []string `json:"secondary_themes,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Technologies    []string `json:"technologies,omitempty"`

	RubricScores   map[string]float64 `json:"rubric_scores,omitempty"`
	WeightedTotal  float64            `json:"weighted_total,omitempty"`
	Recommendation Recommendation     `json:"investment_recommendation,omitempty"`
	KeyStrengths   []string           `json:"key_strengths,omitempty"`
	KeyConcerns    []string           `json:"key_concerns,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// StageStatusFor returns the status of the given stage.
func (i Idea) StageStatusFor(stage Stage) StageStatus {
	switch stage {
	case StageExtraction:
		return i.ExtractionStatus
	case StageClassification:
		return i.ClassificationStatus
	case StageEvaluation:
		return i.EvaluationStatus
	}
	return StatusUnset
}

// PromptContent concatenates the idea's textual fields into the content
// block fed to the classification and evaluation prompts.
func (i Idea) PromptContent() string {
	parts := []string{
		"Title: " + i.Title,
		"Summary: " + i.Summary,
	}
	if i.Description != "" {
		parts = append(parts, "Description: "+i.Description)
	}
	if i.Challenge != "" {
		parts = append(parts, "Challenge / Opportunity: "+i.Challenge)
	}
	if i.NoveltyRisks != "" {
		parts = append(parts, "Novelty, Benefits, Risks: "+i.NoveltyRisks)
	}
	if i.ExtractedContent != "" {
		parts = append(parts, "Additional Content: "+i.ExtractedContent)
	}
	return strings.Join(parts, "\n\n")
}

// EvaluationContent extends PromptContent with classification results so the
// evaluator sees the themes and technologies assigned upstream.
func (i Idea) EvaluationContent() string {
	parts := []string{i.PromptContent()}
	if i.PrimaryTheme != "" {
		parts = append(parts, "Primary Theme: "+i.PrimaryTheme)
	}
	if len(i.SecondaryThemes) > 0 {
		parts = append(parts, "Secondary Themes: "+strings.Join(i.SecondaryThemes, ", "))
	}
	if i.Industry != "" {
		parts = append(parts, "Industry: "+i.Industry)
	}
	if len(i.Technologies) > 0 {
		parts = append(parts, "Technologies: "+strings.Join(i.Technologies, ", "))
	}
	return strings.Join(parts, "\n\n")
}
