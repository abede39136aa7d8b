package retrieval

import (
	"context"
	"strings"

	"github.com/povarna/generative-ai-agents/pub-search/internal/search"
)

const maxPassageLength = 1500

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "in": {},
	"is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "why": {}, "with": {},
}

// KeywordRetriever answers from the in-memory corpus through the search engine.
type KeywordRetriever struct {
	search *search.Service
}

func NewKeywordRetriever(svc *search.Service) *KeywordRetriever {
	return &KeywordRetriever{search: svc}
}

func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	keywords := Keywords(query)
	if keywords == "" {
		return nil, nil
	}

	results, err := r.search.SearchStore(ctx, keywords, false)
	if err != nil {
		return nil, err
	}

	passages := make([]Passage, 0, min(topK, len(results)))
	for i, res := range results {
		if i == topK {
			break
		}
		passages = append(passages, Passage{
			Title:   res.Name,
			Link:    res.Link,
			Content: passageText(res),
			Score:   1.0 / float64(i+1),
		})
	}
	return passages, nil
}

// Keywords drops punctuation and common question words from a question.
func Keywords(question string) string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return strings.ContainsRune(" \t\n\r?!.,;:\"'()[]", r)
	})

	kept := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; !stop {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

func passageText(res search.MatchResult) string {
	var sb strings.Builder
	for _, sec := range res.Sections {
		if !sec.Matched {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(sec.Title)
		sb.WriteString(": ")
		sb.WriteString(sec.Excerpt)
	}
	if sb.Len() == 0 {
		for _, hit := range res.Matches {
			sb.WriteString(hit.Excerpt)
			sb.WriteString("\n")
		}
	}

	text := strings.TrimSpace(sb.String())
	if runes := []rune(text); len(runes) > maxPassageLength {
		text = string(runes[:maxPassageLength])
	}
	return text
}
