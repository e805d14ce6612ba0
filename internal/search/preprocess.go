package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMentionRunes caps stored mention bodies.
const MaxMentionRunes = 2000

const ellipsis = "..."

var (
	paraSplitRE = regexp.MustCompile(`\n\s*\n`)
	scriptRE    = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	jsSchemeRE  = regexp.MustCompile(`(?i)javascript\s*:`)
	handlerRE   = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

// SplitParagraphs splits raw model output on blank lines and returns the
// non-empty, whitespace-normalized chunks in order.
func SplitParagraphs(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	chunks := paraSplitRE.Split(raw, -1)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if t := strings.TrimSpace(NormalizeWhitespace(c)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeWhitespace collapses runs of spaces, tabs and carriage returns
// into one space. Newlines are kept.
func NormalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// CleanText trims s and collapses every whitespace run (newlines included)
// into a single space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeMention strips script blocks, javascript: URLs and inline event
// handlers, trims the result and caps it at MaxMentionRunes (the last three
// runes become "..." when truncated).
func SanitizeMention(s string) string {
	s = scriptRE.ReplaceAllString(s, "")
	s = jsSchemeRE.ReplaceAllString(s, "")
	s = handlerRE.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return Truncate(s, MaxMentionRunes)
}

// Truncate returns s unchanged when it fits in max runes; otherwise its first
// max-3 runes followed by "...".
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	keep := max - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	r := []rune(s)
	return string(r[:keep]) + ellipsis
}
