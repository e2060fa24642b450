package model

// StageStats counts outcomes for one stage run. Processed is fixed at
// selection time; Succeeded + Failed must equal Processed once the run
// returns.
type StageStats struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// PipelineStats aggregates the per-stage statistics of one full run.
type PipelineStats struct {
	Extraction     StageStats `json:"extraction"`
	Classification StageStats `json:"classification"`
	Evaluation     StageStats `json:"evaluation"`
}

// PipelineCounts are store-wide per-stage completion counters, readable at
// any time (independent of any run).
type PipelineCounts struct {
	Total                int `json:"total"`
	Extracted            int `json:"extracted"`
	Classified           int `json:"classified"`
	Evaluated            int `json:"evaluated"`
	ExtractionFailed     int `json:"extraction_failed"`
	ClassificationFailed int `json:"classification_failed"`
	EvaluationFailed     int `json:"evaluation_failed"`
}
