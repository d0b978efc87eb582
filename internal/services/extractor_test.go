package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
)

func TestExtractText(t *testing.T) {
	extractor := NewTextExtractor(nil)

	tests := []struct {
		name     string
		doc      models.Document
		wantText string
		wantCode DiagnosticCode
	}{
		{
			name:     "plain text",
			doc:      models.Document{Name: "cv.txt", ContentType: models.ContentTypePlainText, Data: []byte("Python developer\nGo")},
			wantText: "Python developer\nGo",
			wantCode: CodeOK,
		},
		{
			name:     "invalid utf-8 dropped",
			doc:      models.Document{Name: "cv.txt", ContentType: models.ContentTypePlainText, Data: []byte("caf\xc3\xa9 \xff\xfeok")},
			wantText: "café ok",
			wantCode: CodeOK,
		},
		{
			name:     "empty plain text",
			doc:      models.Document{Name: "empty.txt", ContentType: models.ContentTypePlainText},
			wantText: "",
			wantCode: CodeOK,
		},
		{
			name:     "corrupt pdf",
			doc:      models.Document{Name: "broken.pdf", ContentType: models.ContentTypePDF, Data: []byte("this is not a pdf at all")},
			wantText: "",
			wantCode: CodeParseFailure,
		},
		{
			name:     "empty pdf",
			doc:      models.Document{Name: "empty.pdf", ContentType: models.ContentTypePDF},
			wantText: "",
			wantCode: CodeParseFailure,
		},
		{
			name:     "truncated pdf header",
			doc:      models.Document{Name: "cut.pdf", ContentType: models.ContentTypePDF, Data: []byte("%PDF-1.4\n1 0 obj\n<<")},
			wantText: "",
			wantCode: CodeParseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := extractor.ExtractText(tt.doc)
			assert.Equal(t, tt.wantText, out.Value)
			assert.Equal(t, tt.wantCode, out.Code)
			if tt.wantCode != CodeOK {
				assert.Error(t, out.Err)
				assert.Contains(t, out.Diagnostic("extraction"), "extraction: parse_failure")
			}
		})
	}
}

func loadPDFFixture(t *testing.T, name string) models.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return models.Document{Name: name, ContentType: models.ContentTypePDF, Data: data}
}

func TestExtractTextFromPDF(t *testing.T) {
	extractor := NewTextExtractor(nil)

	t.Run("pages are concatenated in order", func(t *testing.T) {
		out := extractor.ExtractText(loadPDFFixture(t, "two_pages.pdf"))
		require.True(t, out.OK(), out.Diagnostic("extraction"))
		assert.Equal(t, "\nPython developer\nCloud systems", out.Value)
	})

	t.Run("unreadable page contributes nothing", func(t *testing.T) {
		// The middle page's content stream uses an unknown filter.
		out := extractor.ExtractText(loadPDFFixture(t, "bad_page.pdf"))
		require.True(t, out.OK(), out.Diagnostic("extraction"))
		assert.Equal(t, "\nPython developer\nCloud systems", out.Value)
		assert.NotContains(t, out.Value, "Unreadable")
	})
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Python\nGo developer", CleanText("\n  Python  \n\n\n   Go developer \n"))
	assert.Equal(t, "", CleanText("   \n \n"))
}

func TestOutcomeDiagnostic(t *testing.T) {
	assert.Equal(t, "", succeeded("x").Diagnostic("extraction"))
	assert.Equal(t, "embedding: resource_unavailable", fellBack(0, CodeResourceUnavailable, nil).Diagnostic("embedding"))
	assert.Equal(t, "keywords: computation_failure: "+assert.AnError.Error(), fellBack(0, CodeComputationFailure, assert.AnError).Diagnostic("keywords"))
}
