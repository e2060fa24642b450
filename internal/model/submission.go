package model

import "time"

// SubmissionStatus tracks a bulk upload through intake.
type SubmissionStatus string

const (
	SubmissionReceived  SubmissionStatus = "received"
	SubmissionValidated SubmissionStatus = "validated"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Submission records one bulk CSV/XLSX upload and its row-level outcome.
type Submission struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	TotalRows   int              `json:"total_rows"`
	ValidRows   int              `json:"valid_rows"`
	InvalidRows int              `json:"invalid_rows"`
	Status      SubmissionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at,omitempty"`
}
