package retrieval

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
)

// rrfK is the rank constant of reciprocal rank fusion: score = 1 / (k + rank).
const rrfK = 60.0

// HybridRetriever fuses the rankings of several retrievers with reciprocal
// rank fusion. A publication found by more than one retriever collects the
// score of each.
type HybridRetriever struct {
	retrievers []Retriever
	logger     *zerolog.Logger
}

func NewHybridRetriever(logger *zerolog.Logger, retrievers ...Retriever) *HybridRetriever {
	return &HybridRetriever{
		retrievers: retrievers,
		logger:     logger,
	}
}

type scoredPassage struct {
	score   float64
	order   int
	passage Passage
}

func (h *HybridRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	scores := make(map[string]*scoredPassage)
	var errs []error
	order := 0

	for _, r := range h.retrievers {
		passages, err := r.Retrieve(ctx, query, topK*2)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Retriever failed, continuing with the others")
			errs = append(errs, err)
			continue
		}

		for i, p := range passages {
			key := p.Link
			if key == "" {
				key = p.Title
			}

			rrf := 1.0 / (rrfK + float64(i+1))
			if existing, ok := scores[key]; ok {
				existing.score += rrf
				continue
			}
			scores[key] = &scoredPassage{score: rrf, order: order, passage: p}
			order++
		}
	}

	if len(errs) == len(h.retrievers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	scored := make([]*scoredPassage, 0, len(scores))
	for _, s := range scores {
		scored = append(scored, s)
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].order < scored[j].order
	})

	passages := make([]Passage, 0, min(topK, len(scored)))
	for i := 0; i < topK && i < len(scored); i++ {
		p := scored[i].passage
		p.Score = scored[i].score
		passages = append(passages, p)
	}
	return passages, nil
}
