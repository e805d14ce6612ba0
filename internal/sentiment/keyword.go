package sentiment

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// DefaultPositive and DefaultNegative are the word lists used by NewKeyword.
var (
	DefaultPositive = []string{
		"good", "great", "excellent", "love", "awesome", "fantastic",
		"helpful", "works", "solved", "success",
		"amazing", "recommend", "reliable", "innovative", "impressive",
	}
	DefaultNegative = []string{
		"bad", "terrible", "awful", "hate", "broken", "error",
		"fail", "problem", "issue", "bug",
		"disappointed", "worst", "expensive", "slow", "complaint",
	}
)

// Keyword tags text by counting substring occurrences of each list's words
// after Unicode case folding. More positive hits than negative yields
// positive, the reverse yields negative, anything else (including no hits
// and ties) yields neutral.
type Keyword struct {
	positive []string
	negative []string
}

// NewKeyword returns a Keyword tagger over the default word lists.
func NewKeyword() *Keyword {
	return NewKeywordWith(DefaultPositive, DefaultNegative)
}

// NewKeywordWith returns a Keyword tagger over custom word lists.
func NewKeywordWith(positive, negative []string) *Keyword {
	return &Keyword{positive: foldAll(positive), negative: foldAll(negative)}
}

// Tag implements Tagger. The brand is not used.
func (k *Keyword) Tag(_ context.Context, text, _ string) domain.Sentiment {
	folded := fold(text)
	p := countHits(folded, k.positive)
	n := countHits(folded, k.negative)
	switch {
	case p > n:
		return domain.SentimentPositive
	case n > p:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countHits(text string, words []string) int {
	c := 0
	for _, w := range words {
		if w != "" {
			c += strings.Count(text, w)
		}
	}
	return c
}

// fold builds a fresh Caser per call: a Caser keeps state and must not be
// shared between goroutines.
func fold(s string) string { return cases.Fold().String(s) }

func foldAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, fold(w))
		}
	}
	return out
}
