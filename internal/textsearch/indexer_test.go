package textsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexesOf(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		opts     []Option
		want     []int
	}{
		{"repeated", "abcabcabc", "abc", nil, []int{0, 3, 6}},
		{"non overlapping", "aaaa", "aa", nil, []int{0, 2}},
		{"odd overlap", "aaa", "aa", nil, []int{0}},
		{"ignores case by default", "The cat sat on the mat", "the", nil, []int{0, 15}},
		{"case sensitive", "The cat sat on the mat", "the", []Option{CaseSensitive()}, []int{15}},
		{"explicit ignore case", "ABC abc", "abc", []Option{IgnoreCase(true)}, []int{0, 4}},
		{"no match", "hello", "xyz", nil, nil},
		{"needle longer than haystack", "ab", "abc", nil, nil},
		{"empty haystack", "", "a", nil, nil},
		{"unicode", "Привет, привет", "ПРИВЕТ", nil, []int{0, 14}},
		{"invalid byte is not a replacement char", "a\xffb", "\uFFFD", nil, nil},
		{"replacement char matches itself", "a\uFFFDb\xff", "\uFFFD", nil, []int{1}},
		{"invalid byte matches itself", "a\xffb\xfeB", "\xffB", nil, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndexesOf(tt.haystack, tt.needle, tt.opts...))
		})
	}
}

func TestIndexesOf_EmptyNeedle(t *testing.T) {
	for _, haystack := range []string{"", "a", "the cat sat on the mat"} {
		assert.Empty(t, IndexesOf(haystack, ""), "haystack %q", haystack)
	}
}

func TestIndexesOfOptional_NilHaystack(t *testing.T) {
	assert.Empty(t, IndexesOfOptional(nil, "abc"))

	text := "abcabc"
	assert.Equal(t, []int{0, 3}, IndexesOfOptional(&text, "ABC"))
}

func TestIndexesOf_Properties(t *testing.T) {
	cases := []struct{ haystack, needle string }{
		{"mississippi", "ss"},
		{"mississippi", "issi"},
		{"banana bandana", "ana"},
		{"xXxXxX", "xx"},
	}

	for _, c := range cases {
		matches := Find(c.haystack, c.needle)
		prevEnd := -1
		for _, m := range matches {
			assert.GreaterOrEqual(t, m.Start, prevEnd, "offsets must increase without overlap")
			assert.True(t, strings.EqualFold(c.haystack[m.Start:m.End()], c.needle),
				"%q at %d", c.needle, m.Start)
			prevEnd = m.End()
		}
	}
}

func TestFind_ReportsLength(t *testing.T) {
	got := Find("the cat sat on the mat", "the")
	assert.Equal(t, []Match{{Start: 0, Length: 3}, {Start: 15, Length: 3}}, got)
}
