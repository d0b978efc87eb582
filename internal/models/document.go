package models

import (
	"path/filepath"
	"strings"
)

type ContentType string

const (
	ContentTypePDF       ContentType = "application/pdf"
	ContentTypePlainText ContentType = "text/plain"
)

// Document is one uploaded artifact. It lives for a single match run and is
// never persisted.
type Document struct {
	Name        string
	ContentType ContentType
	Data        []byte
}

// DetectContentType resolves the declared MIME type, falling back to the file
// extension. Anything that is not a PDF is treated as plain text.
func DetectContentType(filename, declared string) ContentType {
	mediaType := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if mediaType == string(ContentTypePDF) {
		return ContentTypePDF
	}
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		return ContentTypePDF
	}
	return ContentTypePlainText
}
