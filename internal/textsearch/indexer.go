// Package textsearch finds query occurrences inside loaded article text.
package textsearch

import (
	"unicode"
	"unicode/utf8"
)

// Match is one occurrence of a query, as a byte range of the searched text.
type Match struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the offset just past the match.
func (m Match) End() int {
	return m.Start + m.Length
}

type options struct {
	ignoreCase bool
}

// Option customises a search.
type Option func(*options)

// CaseSensitive disables the default case-insensitive comparison.
func CaseSensitive() Option {
	return func(o *options) {
		o.ignoreCase = false
	}
}

// IgnoreCase sets case handling explicitly.
func IgnoreCase(ignore bool) Option {
	return func(o *options) {
		o.ignoreCase = ignore
	}
}

// IndexesOf returns the byte offsets of every non-overlapping occurrence of
// needle in haystack, scanning left to right. An empty needle yields nil.
func IndexesOf(haystack, needle string, opts ...Option) []int {
	matches := Find(haystack, needle, opts...)
	if len(matches) == 0 {
		return nil
	}
	offsets := make([]int, len(matches))
	for i, m := range matches {
		offsets[i] = m.Start
	}
	return offsets
}

// IndexesOfOptional is IndexesOf for a haystack that may be absent.
func IndexesOfOptional(haystack *string, needle string, opts ...Option) []int {
	if haystack == nil {
		return nil
	}
	return IndexesOf(*haystack, needle, opts...)
}

// Find is like IndexesOf but also reports how many bytes of haystack each
// occurrence covers. With case folding that can differ from len(needle).
func Find(haystack, needle string, opts ...Option) []Match {
	cfg := options{ignoreCase: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if needle == "" || len(haystack) == 0 {
		return nil
	}

	var matches []Match
	for i := 0; i < len(haystack); {
		if n, ok := matchAt(haystack[i:], needle, cfg.ignoreCase); ok {
			matches = append(matches, Match{Start: i, Length: n})
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(haystack[i:])
		i += size
	}
	return matches
}

// matchAt reports whether s starts with needle and how many bytes of s the
// match consumed.
func matchAt(s, needle string, ignoreCase bool) (int, bool) {
	if !ignoreCase {
		if len(s) >= len(needle) && s[:len(needle)] == needle {
			return len(needle), true
		}
		return 0, false
	}

	consumed := 0
	for i := 0; i < len(needle); {
		if consumed >= len(s) {
			return 0, false
		}
		want, wantSize := utf8.DecodeRuneInString(needle[i:])
		got, size := utf8.DecodeRuneInString(s[consumed:])
		if invalid(want, wantSize) || invalid(got, size) {
			// Invalid bytes only match themselves.
			if wantSize != size || needle[i:i+wantSize] != s[consumed:consumed+size] {
				return 0, false
			}
		} else if !equalFold(got, want) {
			return 0, false
		}
		i += wantSize
		consumed += size
	}
	return consumed, true
}

func invalid(r rune, size int) bool {
	return r == utf8.RuneError && size == 1
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
