package services

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-matcher/internal/models"
)

// DocumentTextExtractor turns an uploaded document into plain text. A document
// that cannot be parsed yields empty text and a parse_failure code.
type DocumentTextExtractor interface {
	ExtractText(doc models.Document) Outcome[string]
}

type textExtractor struct {
	logger *slog.Logger
}

func NewTextExtractor(logger *slog.Logger) DocumentTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &textExtractor{
		logger: logger.With("component", "text-extractor"),
	}
}

func (e *textExtractor) ExtractText(doc models.Document) Outcome[string] {
	if doc.ContentType != models.ContentTypePDF {
		return succeeded(decodeText(doc.Data))
	}

	text, err := extractPDFText(doc.Data)
	if err != nil {
		e.logger.Warn("failed to parse PDF, using empty text", "document", doc.Name, "err", err)
		return fellBack("", CodeParseFailure, err)
	}
	return succeeded(text)
}

// decodeText reads bytes as UTF-8, dropping invalid sequences.
func decodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("PDF reader panicked: %v", r)
		}
	}()

	if len(data) == 0 {
		return "", fmt.Errorf("empty PDF")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		textBuilder.WriteString(pageText(r, pageIndex))
	}

	return decodeText([]byte(textBuilder.String())), nil
}

// pageText returns "" for pages that fail to yield text so one bad page never
// aborts the document.
func pageText(r *pdf.Reader, pageIndex int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := r.Page(pageIndex)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// CleanText collapses blank lines and trims each line.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
