package model

import "time"

// ModelPurpose scopes a provider configuration to a pipeline use.
type ModelPurpose string

const (
	PurposeEvaluation   ModelPurpose = "evaluation"
	PurposeVerification ModelPurpose = "verification"
)

// ModelConfig is a stored LLM provider configuration. Provider, model name
// and settings are opaque pass-through for the llm client factory; the
// pipeline only resolves the active config for its purpose.
type ModelConfig struct {
	ID        string            `json:"id"`
	Provider  string            `json:"provider"`
	Name      string            `json:"name"`
	Model     string            `json:"model"`
	Settings  map[string]string `json:"settings,omitempty"`
	Purpose   ModelPurpose      `json:"purpose"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
}
