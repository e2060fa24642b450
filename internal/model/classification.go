package model

// Classification is the structured output of the classification stage.
type Classification struct {
	PrimaryTheme    string   `json:"primary_theme"`
	SecondaryThemes []string `json:"secondary_themes"`
	Industry        string   `json:"industry"`
	Technologies    []string `json:"technologies"`
}

// DefaultClassification is the safe fallback used when the model response
// cannot be parsed into the expected shape. Parse failures are absorbed into
// this result rather than failing the item.
func DefaultClassification() Classification {
	return Classification{
		PrimaryTheme:    ThemeOther,
		SecondaryThemes: []string{},
		Industry:        IndustryOther,
		Technologies:    []string{},
	}
}

// Recommendation is the investment recommendation tier derived from the
// weighted evaluation score.
type Recommendation string

const (
	RecommendGo       Recommendation = "go"
	RecommendConsider Recommendation = "consider-with-mitigations"
	RecommendNoGo     Recommendation = "no-go"
)

// Recommendation thresholds on the 1-10 weighted total.
const (
	goThreshold       = 7.5
	considerThreshold = 5.5
)

// RecommendationFor maps a weighted total to its recommendation tier.
func RecommendationFor(weightedTotal float64) Recommendation {
	switch {
	case weightedTotal >= goThreshold:
		return RecommendGo
	case weightedTotal >= considerThreshold:
		return RecommendConsider
	default:
		return RecommendNoGo
	}
}

// Evaluation is the structured output of the evaluation stage.
type Evaluation struct {
	Scores         map[string]float64 `json:"scores"`
	WeightedTotal  float64            `json:"weighted_total"`
	Recommendation Recommendation     `json:"investment_recommendation"`
	KeyStrengths   []string           `json:"key_strengths"`
	KeyConcerns    []string           `json:"key_concerns"`
}
