package models

type MatchResponse struct {
	ID       string          `json:"id"`
	Status   ResourceStatus  `json:"status"`
	Results  []MatchedResume `json:"results"`
	Warnings []string        `json:"warnings,omitempty"`
}

type MatchedResume struct {
	Rank             int      `json:"rank"`
	ResumeName       string   `json:"resume_name"`
	MatchPercentage  float64  `json:"match_percentage"`
	Band             string   `json:"band"`
	MatchingKeywords []string `json:"matching_keywords"`
	Preview          string   `json:"preview,omitempty"`
	Diagnostics      []string `json:"diagnostics,omitempty"`
}

// ResourceStatus tells the presentation layer whether scores or keywords are
// running on fallbacks.
type ResourceStatus struct {
	EmbeddingAvailable bool `json:"embedding_available"`
	KeywordsAvailable  bool `json:"keywords_available"`
}

func (s ResourceStatus) Degraded() bool {
	return !s.EmbeddingAvailable || !s.KeywordsAvailable
}

type ResultResponse struct {
	ID                 string           `json:"id"`
	JobDescriptionName string           `json:"job_description_name"`
	Status             ResourceStatus   `json:"status"`
	Results            []MatchRunResult `json:"results"`
	Warnings           []string         `json:"warnings,omitempty"`
}
