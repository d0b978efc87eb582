package services

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultKeywordTopN      = 20
	DefaultKeywordMinLength = 3
	DefaultHighlightColor   = "#FFD700"
)

// Tokenizer splits text into lower-case word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer splits on anything that is not a letter, digit, mark,
// underscore, apostrophe or hyphen, so "node.js" gives "node" and "js" while
// "python3" stays one (non-alphabetic) token.
type WordTokenizer struct{}

func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

func (WordTokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'’-_")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) ||
		r == '_' || r == '\'' || r == '’' || r == '-'
}

// ASCIITokenizer keeps only words of three or more ASCII letters. Word
// boundaries are Unicode-aware, so "café" and "python3" are dropped whole
// rather than cut down to "caf" or "python". It backs the degraded keyword
// mode.
type ASCIITokenizer struct{}

func NewASCIITokenizer() *ASCIITokenizer {
	return &ASCIITokenizer{}
}

func (ASCIITokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && r != '_'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 3 && isASCIILetters(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

type KeywordService interface {
	ExtractKeywords(text string, topN int) []string
	FindMatchingKeywords(jdText, resumeText string, minLength int) Outcome[[]string]
	Available() bool
}

type keywordService struct {
	resources *LinguisticResources
	topN      int
	logger    *slog.Logger
}

// NewKeywordService builds the extractor. topN bounds each document's keyword
// set before intersecting.
func NewKeywordService(resources *LinguisticResources, topN int, logger *slog.Logger) KeywordService {
	if resources == nil {
		resources = FallbackLinguisticResources(fmt.Errorf("no linguistic resources configured"))
	}
	if topN <= 0 {
		topN = DefaultKeywordTopN
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &keywordService{
		resources: resources,
		topN:      topN,
		logger:    logger.With("component", "keywords"),
	}
}

func (k *keywordService) Available() bool {
	return k.resources.Available
}

// ExtractKeywords returns the topN most frequent alphabetic non-stopword
// tokens longer than two characters, most frequent first. Ties keep the order
// in which tokens first appear.
func (k *keywordService) ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultKeywordTopN
	}

	counts := make(map[string]int)
	var order []string
	for _, token := range contentWords(k.resources.Tokenizer, k.resources.Stopwords, text) {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// FindMatchingKeywords intersects the top keywords of both texts. The result
// follows the job description's keyword ranking. A failing tokenizer yields an
// empty result instead of an error.
func (k *keywordService) FindMatchingKeywords(jdText, resumeText string, minLength int) (out Outcome[[]string]) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("keyword extraction panicked: %v", r)
			k.logger.Warn("failed to find matching keywords", "err", err)
			out = fellBack([]string{}, CodeComputationFailure, err)
		}
	}()

	if minLength < 0 {
		minLength = DefaultKeywordMinLength
	}

	jdKeywords := k.ExtractKeywords(jdText, k.topN)
	resumeKeywords := make(map[string]struct{})
	for _, kw := range k.ExtractKeywords(resumeText, k.topN) {
		resumeKeywords[kw] = struct{}{}
	}

	matching := []string{}
	for _, kw := range jdKeywords {
		if _, ok := resumeKeywords[kw]; !ok {
			continue
		}
		if utf8.RuneCountInString(kw) >= minLength {
			matching = append(matching, kw)
		}
	}

	return succeeded(matching)
}

// contentWords keeps alphabetic tokens longer than two characters that are not
// stopwords.
func contentWords(tokenizer Tokenizer, stopwords StopwordSet, text string) []string {
	var words []string
	for _, token := range tokenizer.Tokenize(text) {
		if !isAlphabetic(token) || utf8.RuneCountInString(token) <= 2 || stopwords.Contains(token) {
			continue
		}
		words = append(words, token)
	}
	return words
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Highlighter wraps keyword occurrences in markup.
type Highlighter struct {
	Open  string
	Close string
}

func NewHighlighter(color string) *Highlighter {
	if color == "" {
		color = DefaultHighlightColor
	}
	return &Highlighter{
		Open:  fmt.Sprintf(`<span style="background-color: %s; padding: 2px 4px; border-radius: 3px; font-weight: bold;">`, color),
		Close: "</span>",
	}
}

// Highlight returns text as HTML with every case-insensitive occurrence of
// any keyword wrapped in markup. All text, matched or not, is HTML-escaped so
// markup inside an uploaded document is never rendered. Keywords are matched
// against the raw text as escaped literals, longest first, so overlapping
// keywords prefer the longer one.
func (h *Highlighter) Highlight(text string, keywords []string) string {
	literals := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			literals = append(literals, kw)
		}
	}
	if len(literals) == 0 {
		return html.EscapeString(text)
	}

	slices.SortFunc(literals, func(a, b string) int {
		if d := utf8.RuneCountInString(b) - utf8.RuneCountInString(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	escaped := make([]string, len(literals))
	for i, kw := range literals {
		escaped[i] = regexp.QuoteMeta(kw)
	}

	re, err := regexp.Compile(`(?i)(?:` + strings.Join(escaped, "|") + `)`)
	if err != nil {
		return html.EscapeString(text)
	}

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		b.WriteString(h.Open)
		b.WriteString(html.EscapeString(text[loc[0]:loc[1]]))
		b.WriteString(h.Close)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
