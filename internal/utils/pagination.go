// Package utils holds the query-string and caching helpers shared by the
// list endpoints.
package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotInteger is returned for a query value that is present but not a
// base-10 integer.
var ErrNotInteger = errors.New("value must be an integer")

// AtoiDefault parses s as a base-10 int after trimming spaces. A blank value
// yields def; anything else that does not parse is ErrNotInteger.
//
//	n, _ := utils.AtoiDefault("42", 50) // 42
//	n, _ = utils.AtoiDefault("", 50)    // 50
//	_, err := utils.AtoiDefault("x", 5) // ErrNotInteger
func AtoiDefault(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrNotInteger)
	}
	return n, nil
}

// WeakETag joins parts with ':' into a weak entity tag: W/"a:b:c".
func WeakETag(parts ...any) string {
	var b strings.Builder
	b.WriteString(`W/"`)
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprint(&b, p)
	}
	b.WriteByte('"')
	return b.String()
}

// ETagMatch reports whether an If-None-Match header matches etag using weak
// comparison. The header may list several tags or be "*".
func ETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(ifNoneMatch, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}
