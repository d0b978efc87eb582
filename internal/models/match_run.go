package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchRun stores the outcome of one ranking run. Only scores and keywords
// are kept; document bytes and extracted text are discarded with the request.
type MatchRun struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescriptionName string           `gorm:"type:text" json:"job_description_name"`
	EmbeddingAvailable bool             `gorm:"not null" json:"embedding_available"`
	KeywordsAvailable  bool             `gorm:"not null" json:"keywords_available"`
	Warnings           string           `gorm:"type:text" json:"warnings,omitempty"`
	CreatedAt          time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Results            []MatchRunResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"results"`
}

func (MatchRun) TableName() string {
	return "match_runs"
}

type MatchRunResult struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RunID            uuid.UUID `gorm:"type:uuid;not null;index" json:"run_id"`
	Rank             int       `gorm:"not null" json:"rank"`
	ResumeName       string    `gorm:"type:text" json:"resume_name"`
	MatchPercentage  float64   `gorm:"type:decimal(5,2)" json:"match_percentage"`
	MatchingKeywords string    `gorm:"type:text" json:"matching_keywords"`
	KeywordCount     int       `json:"keyword_count"`
}

func (MatchRunResult) TableName() string {
	return "match_run_results"
}
