package search

import (
	"strings"

	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
)

// Match reports whether doc matches query and, if so, where. query must
// already be trimmed and lowercased.
//
// A document matches in phrase mode when the whole query occurs in it, and in
// word mode when the phrase is absent but at least one distinct query word is
// present.
func Match(doc corpus.Document, query string) (*MatchResult, bool) {
	parts := make([]string, 0, 2+2*len(doc.Sections))
	parts = append(parts, doc.Name, doc.Link)
	for _, s := range doc.Sections {
		parts = append(parts, s.Title, s.Body)
	}
	haystack := lower(strings.Join(parts, " "))

	words := distinctWords(query)
	occurrences := strings.Count(haystack, query)
	wordMatches := 0
	if occurrences == 0 {
		for _, w := range words {
			if strings.Contains(haystack, w) {
				wordMatches++
			}
		}
	}
	if occurrences == 0 && wordMatches == 0 {
		return nil, false
	}
	phrase := occurrences > 0

	result := &MatchResult{
		Name:            doc.Name,
		Link:            doc.Link,
		Matches:         []Hit{},
		Sections:        make([]SectionMatch, 0, len(doc.Sections)),
		OccurrenceCount: occurrences,
		WordMatchCount:  wordMatches,
	}

	if strings.Contains(lower(doc.Name), query) {
		result.Matches = append(result.Matches, Hit{Type: HitTitle, Title: doc.Name, Excerpt: Excerpt(doc.Name, query, DefaultRadius)})
	}
	if strings.Contains(lower(doc.Link), query) {
		result.Matches = append(result.Matches, Hit{Type: HitLink, Title: doc.Link, Excerpt: Excerpt(doc.Link, query, DefaultRadius)})
	}

	for _, s := range doc.Sections {
		title, body := lower(s.Title), lower(s.Body)

		if strings.Contains(title, query) || strings.Contains(body, query) {
			source := s.Body
			if source == "" {
				source = s.Title
			}
			result.Matches = append(result.Matches, Hit{Type: HitSection, Title: s.Title, Excerpt: Excerpt(source, query, DefaultRadius)})
		}

		var matched bool
		if phrase {
			matched = strings.Contains(title, query) || strings.Contains(body, query)
		} else {
			matched = containsAny(title, words) || containsAny(body, words)
		}
		if matched {
			result.MatchCount++
		}

		result.Sections = append(result.Sections, SectionMatch{
			Title:   s.Title,
			Excerpt: Excerpt(s.Body, query, DefaultRadius),
			Matched: matched,
			Content: s.Body,
		})
	}

	if len(result.Matches) == 0 {
		title := doc.Name
		if title == "" {
			title = doc.Link
		}
		text := doc.Name + " " + strings.Join(doc.Bodies(), " ")
		result.Matches = append(result.Matches, Hit{Type: HitExcerpt, Title: title, Excerpt: Excerpt(text, query, DefaultRadius)})
	}

	return result, true
}

func distinctWords(query string) []string {
	fields := strings.Fields(query)
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		words = append(words, f)
	}
	return words
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
