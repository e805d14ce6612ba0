package services

import (
	"regexp"
	"unicode/utf8"

	"github.com/tbourn/brand-mentions/internal/generation"
	"github.com/tbourn/brand-mentions/internal/search"
)

const (
	// DefaultLimit is the page size used when a caller does not ask for one.
	DefaultLimit = 50
	// MaxLimit caps every list and search.
	MaxLimit = 100

	// MaxTimeframeHours is one week.
	MaxTimeframeHours = 168

	minQueryRunes    = 2
	maxPlatformRunes = 50
)

var brandRE = regexp.MustCompile(`^[a-zA-Z0-9\s\-_&.]+$`)

// ValidateBrand collapses whitespace in name and checks its length and
// character set. It returns the cleaned name.
func ValidateBrand(name string) (string, error) {
	name = search.CleanText(name)
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 || !brandRE.MatchString(name) {
		return "", ErrInvalidBrand
	}
	return name, nil
}

// ValidatePlatforms normalizes a requested platform list. An empty list
// yields fallback (or the built-in defaults when fallback is empty too).
func ValidatePlatforms(in, fallback []string) ([]string, error) {
	for _, p := range in {
		if utf8.RuneCountInString(p) > maxPlatformRunes {
			return nil, ErrInvalidPlatform
		}
	}
	out := generation.Platforms(in)
	if len(in) == 0 || allBlank(in) {
		out = generation.Platforms(fallback)
	}
	return out, nil
}

// ValidateLimit maps 0 to DefaultLimit and rejects values outside 1-100.
func ValidateLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}

func allBlank(in []string) bool {
	for _, p := range in {
		if search.CleanText(p) != "" {
			return false
		}
	}
	return true
}
