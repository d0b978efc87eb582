package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

const previewLength = 500

// ReportRow is one line of the exported ranking.
type ReportRow struct {
	Rank             int
	ResumeName       string
	MatchPercentage  float64
	MatchingKeywords []string
}

func (r ReportRow) KeywordCount() int {
	return len(r.MatchingKeywords)
}

// ReportRows ranks the report's results.
func ReportRows(report *MatchReport) []ReportRow {
	ranked := report.Ranked()
	rows := make([]ReportRow, len(ranked))
	for i, res := range ranked {
		rows[i] = ReportRow{
			Rank:             i + 1,
			ResumeName:       res.ResumeName,
			MatchPercentage:  res.MatchPercentage,
			MatchingKeywords: res.MatchingKeywords,
		}
	}
	return rows
}

// ReportRowsFromRun rebuilds rows from a stored run.
func ReportRowsFromRun(run *models.MatchRun) []ReportRow {
	rows := make([]ReportRow, len(run.Results))
	for i, res := range run.Results {
		rows[i] = ReportRow{
			Rank:             res.Rank,
			ResumeName:       res.ResumeName,
			MatchPercentage:  res.MatchPercentage,
			MatchingKeywords: SplitKeywords(res.MatchingKeywords),
		}
	}
	return rows
}

func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}

func SplitKeywords(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// WriteEnhancedCSV writes rank, resume, percentage, keywords and keyword count.
func WriteEnhancedCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rank", "Resume", "Match_Percentage", "Matching_Keywords", "Keyword_Count"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.ResumeName,
			formatPercentage(row.MatchPercentage),
			JoinKeywords(row.MatchingKeywords),
			strconv.Itoa(row.KeywordCount()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSimpleCSV writes only resume name and percentage.
func WriteSimpleCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Resume", "Match %"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.ResumeName, formatPercentage(row.MatchPercentage)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPercentage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScoreBand buckets a percentage the way the results view colours it.
func ScoreBand(percentage float64) string {
	switch {
	case percentage < 50:
		return "low"
	case percentage < 75:
		return "medium"
	default:
		return "high"
	}
}

// Preview renders the first 500 characters of the cleaned text as escaped
// HTML with keywords highlighted.
func Preview(text string, keywords []string, highlighter *Highlighter) string {
	head := CleanText(text)
	if utf8.RuneCountInString(head) > previewLength {
		head = truncateRunes(head, previewLength)
	}
	return highlighter.Highlight(head+"...", keywords)
}

// RunFromReport flattens a report into its stored form.
func RunFromReport(report *MatchReport) *models.MatchRun {
	run := &models.MatchRun{
		ID:                 report.RunID,
		JobDescriptionName: report.JobDescriptionName,
		EmbeddingAvailable: report.Status.EmbeddingAvailable,
		KeywordsAvailable:  report.Status.KeywordsAvailable,
		Warnings:           strings.Join(report.Warnings, "\n"),
	}
	for _, row := range ReportRows(report) {
		run.Results = append(run.Results, models.MatchRunResult{
			ID:               uuid.New(),
			RunID:            report.RunID,
			Rank:             row.Rank,
			ResumeName:       row.ResumeName,
			MatchPercentage:  row.MatchPercentage,
			MatchingKeywords: JoinKeywords(row.MatchingKeywords),
			KeywordCount:     row.KeywordCount(),
		})
	}
	return run
}
