package services

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed stopwords/english.txt
var englishStopwords string

// minimalStopwords is used when the configured stopword list cannot be loaded.
var minimalStopwords = []string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does",
	"did", "will", "would", "could", "should", "may", "might", "can", "this",
	"that", "these", "those", "i", "you", "he", "she", "it", "we", "they", "me",
	"him", "her", "us", "them", "my", "your", "his", "its", "our", "their",
	"mine", "yours", "hers", "ours", "theirs", "a", "an", "as", "so", "than",
	"too", "very", "just", "now", "then", "here", "there", "when", "where", "why",
	"how", "all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "also", "well", "even",
	"back", "still", "way", "take", "every", "am", "get", "through", "during",
	"before", "after", "above", "below", "up", "down", "out", "off", "over",
	"under", "again", "further", "once",
}

type StopwordSet map[string]struct{}

func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func newStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// parseStopwords reads one word per line; blank lines and # comments are skipped.
func parseStopwords(content string) StopwordSet {
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return newStopwordSet(words)
}

// EnglishStopwords returns the bundled standard English list.
func EnglishStopwords() StopwordSet {
	return parseStopwords(englishStopwords)
}

// MinimalStopwords returns the hand-written fallback list.
func MinimalStopwords() StopwordSet {
	return newStopwordSet(minimalStopwords)
}

// LinguisticResources bundles what keyword extraction needs. When Available is
// false the fallback tokenizer and minimal stopword list are in use and Err
// says why.
type LinguisticResources struct {
	Tokenizer Tokenizer
	Stopwords StopwordSet
	Available bool
	Err       error
}

// LoadLinguisticResources loads the stopword list from path, or the bundled
// English list when path is empty. It never fails: an unreadable or empty
// file yields the fallback resources.
func LoadLinguisticResources(path string) *LinguisticResources {
	if path == "" {
		return &LinguisticResources{
			Tokenizer: NewWordTokenizer(),
			Stopwords: EnglishStopwords(),
			Available: true,
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return FallbackLinguisticResources(fmt.Errorf("failed to read stopwords: %w", err))
	}

	stopwords := parseStopwords(string(content))
	if len(stopwords) == 0 {
		return FallbackLinguisticResources(fmt.Errorf("stopword list %s is empty", path))
	}

	return &LinguisticResources{
		Tokenizer: NewWordTokenizer(),
		Stopwords: stopwords,
		Available: true,
	}
}

func FallbackLinguisticResources(cause error) *LinguisticResources {
	return &LinguisticResources{
		Tokenizer: NewASCIITokenizer(),
		Stopwords: MinimalStopwords(),
		Available: false,
		Err:       cause,
	}
}
