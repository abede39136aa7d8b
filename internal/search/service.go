package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/rs/zerolog"
)

type matchFunc func(doc corpus.Document, query string) (*MatchResult, bool)

type Service struct {
	store  *corpus.Store
	logger *zerolog.Logger
	match  matchFunc
}

func NewService(store *corpus.Store, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		match:  Match,
	}
}

// SearchStore runs Search against the corpus held by the store. Loader errors
// are returned unchanged.
func (s *Service) SearchStore(ctx context.Context, query string, exact bool) ([]MatchResult, error) {
	docs, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Search(docs, query, exact)
}

// Search matches every document against query and ranks the results.
// Phrase matches come first, ordered by occurrence count. Unless exact is set
// they are followed by word matches ordered by word match count. Ties keep
// corpus order and a (name, link) pair is reported once.
func (s *Service) Search(docs corpus.Corpus, query string, exact bool) ([]MatchResult, error) {
	q := lower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrInvalidQuery
	}

	var phrase, word []MatchResult
	for _, doc := range docs {
		res, ok, err := s.matchDocument(doc, q)
		if err != nil {
			s.logger.Warn().Err(err).Str("document", doc.Name).Msg("Skipping document")
			continue
		}
		if !ok {
			continue
		}
		if res.OccurrenceCount > 0 {
			phrase = append(phrase, *res)
		} else if res.WordMatchCount > 0 {
			word = append(word, *res)
		}
	}

	sort.SliceStable(phrase, func(i, j int) bool {
		return phrase[i].OccurrenceCount > phrase[j].OccurrenceCount
	})

	if exact {
		if phrase == nil {
			return []MatchResult{}, nil
		}
		return phrase, nil
	}

	sort.SliceStable(word, func(i, j int) bool {
		return word[i].WordMatchCount > word[j].WordMatchCount
	})

	type key struct{ name, link string }
	seen := make(map[key]struct{}, len(phrase)+len(word))
	results := make([]MatchResult, 0, len(phrase)+len(word))
	for _, group := range [][]MatchResult{phrase, word} {
		for _, r := range group {
			k := key{r.Name, r.Link}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			results = append(results, r)
		}
	}

	return results, nil
}

func (s *Service) matchDocument(doc corpus.Document, query string) (res *MatchResult, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, ok = nil, false
			err = &MatchingError{Document: doc.Name, Cause: fmt.Errorf("%v", r)}
		}
	}()

	res, ok = s.match(doc, query)
	return res, ok, nil
}
