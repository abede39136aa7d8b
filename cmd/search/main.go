package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/povarna/generative-ai-agents/pub-search/internal/search"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	defaultCorpus := os.Getenv("CORPUS_PATH")
	if defaultCorpus == "" {
		defaultCorpus = "data/data.json"
	}

	corpusPath := flag.String("corpus", defaultCorpus, "Path to the scraped corpus")
	query := flag.String("query", "", "Text to search for")
	exact := flag.Bool("exact", false, "Only return whole-phrase matches")
	flag.Parse()

	service := search.NewService(corpus.NewStore(*corpusPath, &logger), &logger)
	results, err := service.SearchStore(context.Background(), *query, *exact)
	if err != nil {
		log.Fatal().Err(err).Msg("Search failed")
	}

	log.Info().Int("results", len(results)).Str("query", *query).Msg("Search complete")

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatal().Err(err).Msg("Failed to write results")
	}
}
