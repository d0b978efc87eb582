package services

import (
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeywordService(t *testing.T) KeywordService {
	t.Helper()
	resources := LoadLinguisticResources("")
	require.True(t, resources.Available)
	return NewKeywordService(resources, DefaultKeywordTopN, nil)
}

func TestExtractKeywords(t *testing.T) {
	svc := newTestKeywordService(t)

	tests := []struct {
		name string
		text string
		topN int
		want []string
	}{
		{
			name: "most frequent first",
			text: "Python python Go developer python go",
			topN: 20,
			want: []string{"python", "developer"},
		},
		{
			name: "ties keep first appearance",
			text: "zeta alpha beta",
			topN: 20,
			want: []string{"zeta", "alpha", "beta"},
		},
		{
			name: "stopwords dropped",
			text: "the and with experience",
			topN: 20,
			want: []string{"experience"},
		},
		{
			name: "non alphabetic tokens dropped",
			text: "python3 node.js kubernetes",
			topN: 20,
			want: []string{"node", "kubernetes"},
		},
		{
			name: "truncated to top n",
			text: "kafka kafka kafka redis redis postgres",
			topN: 2,
			want: []string{"kafka", "redis"},
		},
		{
			name: "empty text",
			text: "",
			topN: 20,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ExtractKeywords(tt.text, tt.topN))
		})
	}
}

func TestExtractKeywordsDefaultsTopN(t *testing.T) {
	svc := newTestKeywordService(t)

	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november oscar papa quebec romeo sierra tango uniform victor whiskey"

	got := svc.ExtractKeywords(text, 0)
	assert.Len(t, got, DefaultKeywordTopN)
	assert.Equal(t, "alpha", got[0])
}

func TestFindMatchingKeywords(t *testing.T) {
	svc := newTestKeywordService(t)

	jd := "Looking for a Python developer with experience in distributed systems and cloud infrastructure."
	resume := "Senior Python engineer, 5 years building distributed systems on cloud platforms."

	out := svc.FindMatchingKeywords(jd, resume, DefaultKeywordMinLength)
	require.True(t, out.OK())
	assert.Equal(t, []string{"python", "distributed", "systems", "cloud"}, out.Value)
}

func TestFindMatchingKeywordsProperties(t *testing.T) {
	svc := newTestKeywordService(t)

	a := "Go engineer experienced with Kubernetes, Terraform and PostgreSQL migrations."
	b := "Platform engineer running Kubernetes clusters provisioned by Terraform."

	t.Run("symmetric", func(t *testing.T) {
		ab := svc.FindMatchingKeywords(a, b, 3).Value
		ba := svc.FindMatchingKeywords(b, a, 3).Value
		assert.ElementsMatch(t, ab, ba)
		assert.ElementsMatch(t, []string{"engineer", "kubernetes", "terraform"}, ab)
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, svc.FindMatchingKeywords(a, b, 3), svc.FindMatchingKeywords(a, b, 3))
	})

	t.Run("no overlap is empty not nil", func(t *testing.T) {
		out := svc.FindMatchingKeywords("Seeking a chef with pastry experience.", "Software engineer skilled in Java and Kubernetes.", 3)
		require.True(t, out.OK())
		assert.NotNil(t, out.Value)
		assert.Empty(t, out.Value)
	})

	t.Run("empty inputs", func(t *testing.T) {
		out := svc.FindMatchingKeywords("", "", 3)
		assert.NotNil(t, out.Value)
		assert.Empty(t, out.Value)
	})
}

func TestFindMatchingKeywordsMinLength(t *testing.T) {
	svc := newTestKeywordService(t)

	jd := "api api design"
	resume := "api design"

	assert.Equal(t, []string{"api", "design"}, svc.FindMatchingKeywords(jd, resume, 3).Value)
	assert.Equal(t, []string{"design"}, svc.FindMatchingKeywords(jd, resume, 4).Value)
	assert.Equal(t, []string{"api", "design"}, svc.FindMatchingKeywords(jd, resume, -1).Value)
}

type panickingTokenizer struct{}

func (panickingTokenizer) Tokenize(string) []string {
	panic("tokenizer exploded")
}

func TestFindMatchingKeywordsRecoversFromTokenizerPanic(t *testing.T) {
	svc := NewKeywordService(&LinguisticResources{
		Tokenizer: panickingTokenizer{},
		Stopwords: MinimalStopwords(),
		Available: true,
	}, DefaultKeywordTopN, nil)

	out := svc.FindMatchingKeywords("python developer", "python engineer", 3)
	assert.Equal(t, CodeComputationFailure, out.Code)
	assert.NotNil(t, out.Value)
	assert.Empty(t, out.Value)
	assert.Contains(t, out.Diagnostic("keywords"), "tokenizer exploded")
}

func TestLinguisticResources(t *testing.T) {
	t.Run("bundled list", func(t *testing.T) {
		res := LoadLinguisticResources("")
		assert.True(t, res.Available)
		assert.NoError(t, res.Err)
		assert.True(t, res.Stopwords.Contains("the"))
		assert.True(t, res.Stopwords.Contains("yourselves"))
		assert.False(t, res.Stopwords.Contains("python"))
	})

	t.Run("custom list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stopwords.txt")
		require.NoError(t, os.WriteFile(path, []byte("# custom\npython\n\nDeveloper\n"), 0o644))

		res := LoadLinguisticResources(path)
		require.True(t, res.Available)

		svc := NewKeywordService(res, DefaultKeywordTopN, nil)
		assert.Equal(t, []string{"kubernetes"}, svc.ExtractKeywords("python developer kubernetes", 20))
	})

	t.Run("missing file falls back", func(t *testing.T) {
		res := LoadLinguisticResources(filepath.Join(t.TempDir(), "missing.txt"))
		assert.False(t, res.Available)
		assert.Error(t, res.Err)
		assert.IsType(t, &ASCIITokenizer{}, res.Tokenizer)
		assert.True(t, res.Stopwords.Contains("with"))
	})

	t.Run("empty file falls back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o644))

		res := LoadLinguisticResources(path)
		assert.False(t, res.Available)
		assert.ErrorContains(t, res.Err, "empty")
	})
}

func TestKeywordServiceDegradedMode(t *testing.T) {
	svc := NewKeywordService(FallbackLinguisticResources(assert.AnError), DefaultKeywordTopN, nil)
	assert.False(t, svc.Available())

	assert.Equal(t, []string{"python", "developer", "kubernetes"}, svc.ExtractKeywords("Python developer with Kubernetes", 20))

	out := svc.FindMatchingKeywords("Python developer", "python engineer", 3)
	assert.True(t, out.OK())
	assert.Equal(t, []string{"python"}, out.Value)
}

func TestNewKeywordServiceWithoutResources(t *testing.T) {
	svc := NewKeywordService(nil, 0, nil)
	assert.False(t, svc.Available())
	assert.Equal(t, []string{"golang"}, svc.ExtractKeywords("golang", 0))
}

func TestTokenizers(t *testing.T) {
	assert.Equal(t,
		[]string{"node", "js", "python3", "c", "don't", "state-of-the-art"},
		NewWordTokenizer().Tokenize("Node.js, Python3; C++ -don't- state-of-the-art"),
	)
	assert.Equal(t,
		[]string{"node", "python", "don"},
		NewASCIITokenizer().Tokenize("Node.js Python3 Python don't C++ go"),
	)
	assert.Equal(t,
		[]string{"golang", "rust"},
		NewASCIITokenizer().Tokenize("Café résumé golang naïve snake_case RUST"),
	)
}

func TestHighlight(t *testing.T) {
	h := NewHighlighter("")
	require.Contains(t, h.Open, DefaultHighlightColor)

	t.Run("no keywords returns text unchanged", func(t *testing.T) {
		text := "Python developer"
		assert.Equal(t, text, h.Highlight(text, nil))
		assert.Equal(t, text, h.Highlight(text, []string{"", ""}))
	})

	t.Run("case insensitive and markup only", func(t *testing.T) {
		text := "Python and python and PYTHON"
		got := h.Highlight(text, []string{"python"})

		assert.Equal(t, 3, strings.Count(got, h.Open))
		assert.Equal(t, 3, strings.Count(got, h.Close))
		assert.Contains(t, got, h.Open+"PYTHON"+h.Close)

		stripped := strings.ReplaceAll(strings.ReplaceAll(got, h.Open, ""), h.Close, "")
		assert.Equal(t, text, stripped)
	})

	t.Run("longer keyword wins", func(t *testing.T) {
		got := h.Highlight("javascript", []string{"java", "javascript"})
		assert.Equal(t, h.Open+"javascript"+h.Close, got)
	})

	t.Run("document markup is escaped", func(t *testing.T) {
		text := `<script>alert("python")</script> & <b>Go</b>`
		got := h.Highlight(text, []string{"python"})

		assert.Equal(t, `&lt;script&gt;alert(&#34;`+h.Open+"python"+h.Close+`&#34;)&lt;/script&gt; &amp; &lt;b&gt;Go&lt;/b&gt;`, got)
		assert.NotContains(t, got, "<script>")

		stripped := strings.ReplaceAll(strings.ReplaceAll(got, h.Open, ""), h.Close, "")
		assert.Equal(t, text, html.UnescapeString(stripped))
	})

	t.Run("escaped entities are not matched", func(t *testing.T) {
		assert.Equal(t, "R&amp;D", h.Highlight("R&D", []string{"amp"}))
	})

	t.Run("escaped without keywords", func(t *testing.T) {
		assert.Equal(t, "&lt;i&gt;hi&lt;/i&gt;", h.Highlight("<i>hi</i>", nil))
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		got := h.Highlight("c++ and c# and cxx", []string{"c++", "c#"})
		assert.Equal(t, h.Open+"c++"+h.Close+" and "+h.Open+"c#"+h.Close+" and cxx", got)
	})

	t.Run("custom colour", func(t *testing.T) {
		assert.Contains(t, NewHighlighter("#00FF00").Open, "#00FF00")
	})
}
