// Package search holds the text utilities behind mention generation,
// keyword statistics and near-duplicate detection. Functions are pure and
// safe for concurrent use. Tokens are lowercase runs of Unicode letters
// optionally followed by digits, so "model3" and "émission" both count.
//
// Similarity uses Jaccard over token sets: |A ∩ B| / |A ∪ B|.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Keyword is a token and the number of texts it appears in.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Option tunes TopKeywords.
type Option func(*config)

type config struct {
	minRunes  int
	stopwords map[string]struct{}
}

func defaultConfig() config {
	return config{
		minRunes:  4,
		stopwords: toSet(DefaultStopwords),
	}
}

// DefaultStopwords are dropped from keyword results.
var DefaultStopwords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
	"her", "was", "one", "our", "out", "day", "get", "has", "him", "his",
	"how", "its", "may", "new", "now", "old", "see", "two", "who", "boy",
	"did", "she", "use", "way", "too", "any", "each", "which", "their",
	"this", "that", "with", "have", "from", "they", "what", "about", "been",
	"would", "could", "should", "there", "when", "your", "more", "than",
	"them", "were", "will", "just", "also", "into", "some", "like",
}

// WithMinRunes drops tokens shorter than n runes.
func WithMinRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minRunes = n
		}
	}
}

// WithStopwords replaces the stop-word list.
func WithStopwords(words []string) Option {
	return func(c *config) {
		c.stopwords = toSet(words)
	}
}

// WithExtraStopwords adds words (e.g. the brand's own tokens) to the list.
func WithExtraStopwords(words ...string) Option {
	return func(c *config) {
		if c.stopwords == nil {
			c.stopwords = map[string]struct{}{}
		}
		for w := range toSet(words) {
			c.stopwords[w] = struct{}{}
		}
	}
}

// TopKeywords returns up to k tokens ranked by how many texts contain them
// (count desc, then word asc). k <= 0 defaults to 10.
func TopKeywords(texts []string, k int, opts ...Option) []Keyword {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if k <= 0 {
		k = 10
	}

	counts := make(map[string]int)
	for _, t := range texts {
		for w := range tokenize(t, cfg.stopwords) {
			if utf8.RuneCountInString(w) < cfg.minRunes {
				continue
			}
			counts[w]++
		}
	}
	if len(counts) == 0 {
		return []Keyword{}
	}

	out := make([]Keyword, 0, len(counts))
	for w, c := range counts {
		out = append(out, Keyword{Word: w, Count: c})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Word < out[b].Word
	})
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// Similarity is the Jaccard similarity of the token sets of a and b, in
// [0,1]. Two texts without any tokens score 0.
func Similarity(a, b string) float64 {
	ta, tb := tokenize(a, nil), tokenize(b, nil)
	over := overlap(ta, tb)
	if over == 0 {
		return 0
	}
	union := len(ta) + len(tb) - over
	if union <= 0 {
		return 0
	}
	return float64(over) / float64(union)
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}
