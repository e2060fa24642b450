package model

import "time"

// Rubric is one weighted evaluation criterion. Weight is an integer 0-100;
// the evaluator consumes weights as decimal fractions (weight/100). The
// active rubric set is read once per evaluation run and held fixed for the
// whole batch.
type Rubric struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Weight       int       `json:"weight"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Fraction returns the rubric weight as a decimal fraction.
func (r Rubric) Fraction() float64 {
	return float64(r.Weight) / 100.0
}
