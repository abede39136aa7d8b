package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultPacing = 50 * time.Millisecond

type Scraper struct {
	fetcher *Fetcher
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

func NewScraper(fetcher *Fetcher, pacing time.Duration, logger *zerolog.Logger) *Scraper {
	limit := rate.Inf
	if pacing > 0 {
		limit = rate.Every(pacing)
	}
	return &Scraper{
		fetcher: fetcher,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Scrape fetches every publication in order. A failed article becomes an
// entry with empty sections and Error set. When ctx is cancelled the entries
// scraped so far are returned together with the context error.
func (s *Scraper) Scrape(ctx context.Context, publications []Publication) (corpus.Corpus, error) {
	results := make(corpus.Corpus, 0, len(publications))

	for i, pub := range publications {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Warn().Int("written", len(results)).Msg("Interrupted, keeping partial results")
			return results, err
		}

		doc := s.ScrapeArticle(ctx, pub)
		if ctx.Err() != nil {
			s.logger.Warn().Int("written", len(results)).Msg("Interrupted, keeping partial results")
			return results, ctx.Err()
		}
		results = append(results, doc)

		s.logger.Info().
			Int("article", i+1).
			Int("total", len(publications)).
			Str("name", pub.Name).
			Int("sections", len(doc.Sections)).
			Msg("done")
	}

	return results, nil
}

// ScrapeArticle fetches and parses one publication page.
func (s *Scraper) ScrapeArticle(ctx context.Context, pub Publication) corpus.Document {
	doc := corpus.Document{
		Name:         pub.Name,
		Link:         pub.Link,
		SectionNames: []string{},
	}

	body, err := s.fetcher.Fetch(ctx, pub.Link)
	if err != nil {
		s.logger.Error().Err(err).Str("name", pub.Name).Str("link", pub.Link).Msg("Network error")
		doc.Error = err.Error()
		return doc
	}

	if err := ExtractSections(bytes.NewReader(body), &doc); err != nil {
		s.logger.Error().Err(err).Str("name", pub.Name).Msg("Failed to parse HTML")
		return corpus.Document{
			Name:         pub.Name,
			Link:         pub.Link,
			SectionNames: []string{},
			Error:        "parse_error",
		}
	}

	return doc
}

// WriteCorpus writes docs as a JSON array indented with four spaces, without
// escaping HTML characters.
func WriteCorpus(w io.Writer, docs corpus.Corpus) error {
	if docs == nil {
		docs = corpus.Corpus{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(docs)
}

func WriteFile(path string, docs corpus.Corpus) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteCorpus(f, docs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	return f.Close()
}
