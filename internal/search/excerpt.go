package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultRadius is the number of characters kept on each side of the first hit.
const DefaultRadius = 80

const ellipsis = "..."

// Excerpt returns a snippet of text centred on the first case-insensitive
// occurrence of query. Positions are counted in characters. When query does
// not occur, the first 2*radius characters are used instead. The snippet gets
// a trailing ellipsis whenever it is shorter than text.
func Excerpt(text, query string, radius int) string {
	if radius < 0 {
		radius = 0
	}

	runes := []rune(text)
	haystack := lower(text)
	needle := lower(query)

	var snippet []rune
	if idx := strings.Index(haystack, needle); idx == -1 {
		snippet = runes[:min(len(runes), 2*radius)]
	} else {
		start := utf8.RuneCountInString(haystack[:idx])
		end := min(len(runes), start+utf8.RuneCountInString(needle)+radius)
		snippet = runes[max(0, start-radius):end]
	}

	out := strings.TrimSpace(string(snippet))
	if utf8.RuneCountInString(out) < len(runes) {
		return out + ellipsis
	}
	return out
}

// lower folds case rune by rune, so character offsets in the result line up
// with the original text.
func lower(s string) string {
	return strings.Map(unicode.ToLower, s)
}
