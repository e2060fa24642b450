// Package intake parses bulk idea submissions (CSV or XLSX), validates
// rows against the canonical column set, and loads the valid rows into the
// store under a new submission record.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/store"
)

// Canonical submission column headers, matched case-insensitively after
// trimming. Only title and summary are required; the rest enrich the idea
// when present.
const (
	headerTitle         = "your idea title"
	headerSummary       = "brief summary of your idea"
	headerChallenge     = "challenge/business opportunity being addressed and the ability to scale it across tcs and multiple customers."
	headerNoveltyRisks  = "novelty of the idea, benefits and risks."
	headerResponsibleAI = "highlight adherence to responsible ai principles such as security, fairness, privacy & legal compliance."
)

var requiredHeaders = []string{headerTitle, headerSummary}

// maxRows caps one bulk upload.
const maxRows = 500

// ideaRow carries one parsed row through validation.
type ideaRow struct {
	Title         string `validate:"required,min=5,max=200"`
	Summary       string `validate:"required,min=10,max=2000"`
	Challenge     string
	NoveltyRisks  string
	ResponsibleAI string
}

// RowError describes one validation failure, row-numbered as the uploader
// sees the file (header is row 1, first data row is row 2).
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result summarizes one import: the created submission, counts, and the
// per-row errors for everything rejected.
type Result struct {
	SubmissionID string     `json:"submission_id"`
	TotalRows    int        `json:"total_rows"`
	ValidRows    int        `json:"valid_rows"`
	InvalidRows  int        `json:"invalid_rows"`
	Errors       []RowError `json:"errors,omitempty"`
}

// Importer loads bulk submissions into the store.
type Importer struct {
	store    store.Store
	validate *validator.Validate
}

// NewImporter builds an Importer.
func NewImporter(st store.Store) *Importer {
	return &Importer{
		store:    st,
		validate: validator.New(),
	}
}

// Import reads, validates and stores one submission file. A file-level
// problem (unreadable, missing required headers, too many rows) is an
// error; row-level problems are collected into the Result and never abort
// the rest of the file.
func (im *Importer) Import(ctx context.Context, path, filename string) (*Result, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}

	colIndex, missing := mapHeaders(header)
	if len(missing) > 0 {
		return nil, eris.Errorf("intake: missing required columns: %s", strings.Join(missing, ", "))
	}
	if len(rows) > maxRows {
		return nil, eris.Errorf("intake: %d rows exceeds the %d row limit", len(rows), maxRows)
	}

	result := &Result{TotalRows: len(rows)}
	var ideas []model.Idea

	for i, cells := range rows {
		rowNumber := i + 2 // header row plus 1-based indexing

		row := ideaRow{
			Title:         cellAt(cells, colIndex[headerTitle]),
			Summary:       cellAt(cells, colIndex[headerSummary]),
			Challenge:     cellAt(cells, colIndex[headerChallenge]),
			NoveltyRisks:  cellAt(cells, colIndex[headerNoveltyRisks]),
			ResponsibleAI: cellAt(cells, colIndex[headerResponsibleAI]),
		}

		if errs := im.validateRow(row, rowNumber); len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}

		ideas = append(ideas, model.Idea{
			Title:         row.Title,
			Summary:       row.Summary,
			Challenge:     row.Challenge,
			NoveltyRisks:  row.NoveltyRisks,
			ResponsibleAI: row.ResponsibleAI,
		})
	}

	result.ValidRows = len(ideas)
	result.InvalidRows = result.TotalRows - result.ValidRows

	sub := &model.Submission{
		Filename:    filename,
		TotalRows:   result.TotalRows,
		ValidRows:   result.ValidRows,
		InvalidRows: result.InvalidRows,
		Status:      model.SubmissionValidated,
	}
	if err := im.store.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	result.SubmissionID = sub.ID

	for i := range ideas {
		ideas[i].SubmissionID = sub.ID
	}
	if _, err := im.store.InsertIdeas(ctx, ideas); err != nil {
		return nil, err
	}

	zap.L().Info("submission imported",
		zap.String("submission_id", sub.ID),
		zap.String("filename", filename),
		zap.Int("valid_rows", result.ValidRows),
		zap.Int("invalid_rows", result.InvalidRows))
	return result, nil
}

// validateRow converts validator failures into row-numbered errors.
func (im *Importer) validateRow(row ideaRow, rowNumber int) []RowError {
	err := im.validate.Struct(row)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []RowError{{Row: rowNumber, Field: "", Message: err.Error()}}
	}

	out := make([]RowError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, RowError{
			Row:     rowNumber,
			Field:   fieldHeader(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldHeader(field string) string {
	switch field {
	case "Title":
		return headerTitle
	case "Summary":
		return headerSummary
	}
	return strings.ToLower(field)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// mapHeaders resolves each canonical column to its index in the file
// header and reports which required columns are absent.
func mapHeaders(header []string) (map[string]int, []string) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	colIndex := make(map[string]int)
	for _, name := range []string{headerTitle, headerSummary, headerChallenge, headerNoveltyRisks, headerResponsibleAI} {
		if i, ok := index[name]; ok {
			colIndex[name] = i
		} else {
			colIndex[name] = -1
		}
	}

	var missing []string
	for _, name := range requiredHeaders {
		if colIndex[name] < 0 {
			missing = append(missing, name)
		}
	}
	return colIndex, missing
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
