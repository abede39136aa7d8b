package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/povarna/generative-ai-agents/pub-search/internal/scraper"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	csvPath := flag.String("csv", "SB_publication_PMC.csv", "CSV of publication name and link")
	outPath := flag.String("out", "data.json", "Output corpus file")
	pacing := flag.Duration("pacing", scraper.DefaultPacing, "Minimum delay between articles")
	flag.Parse()

	publications, err := scraper.LoadPublications(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *csvPath).Msg("CSV file not found")
	}
	log.Info().Int("publications", len(publications)).Msg("Publication list loaded")

	// Interrupts stop the run; whatever was scraped is still written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := scraper.NewScraper(scraper.NewFetcher(scraper.DefaultFetcherConfig(), &logger), *pacing, &logger)
	docs, err := s.Scrape(ctx, publications)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Scrape stopped")
	}

	if err := scraper.WriteFile(*outPath, docs); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output file")
	}
	log.Info().Int("records", len(docs)).Str("path", *outPath).Msg("Corpus written")
}
