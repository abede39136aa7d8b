package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/povarna/generative-ai-agents/pub-search/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Unable to load env variables")
	}
	cfg := setup.LoadConfig()

	corpusPath := flag.String("corpus", cfg.CorpusPath, "Path to the scraped corpus to ingest")
	chunkSize := flag.Int("chunkSize", cfg.ChunkSize, "Chunk size in characters")
	chunkOverlap := flag.Int("chunkOverlap", cfg.ChunkOverlap, "Chunk overlap in characters")

	deleteDocCommand := flag.Bool("delete-doc", false, "Delete existing document command")
	documentId := flag.String("doc-id", "", "Document id which needs to be deleted")

	getAllDocsCommand := flag.Bool("get-docs", false, "Get all documents command")
	resetCommand := flag.Bool("reset", false, "Remove every stored document and chunk")

	flag.Parse()

	cfg.ChunkSize = *chunkSize
	cfg.ChunkOverlap = *chunkOverlap

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.WireIngestion(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare ingestion")
	}
	defer deps.DB.Close()

	log.Info().Msg("Database connected")

	switch {
	case *deleteDocCommand:
		if *documentId == "" {
			log.Fatal().Msg("-doc-id is required with -delete-doc")
		}
		if err := deps.DB.DeleteDocument(ctx, *documentId); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete document")
		}
		log.Info().Str("doc_id", *documentId).Msg("Document deleted successfully")

	case *getAllDocsCommand:
		documents, err := deps.DB.GetAllDocs(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to fetch documents from DB!")
		}
		for _, document := range documents {
			log.Info().Msg(document.Print())
		}

	case *resetCommand:
		if err := deps.DB.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset vector store")
		}
		log.Info().Msg("Vector store reset")

	default:
		docs, err := corpus.Load(*corpusPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to load corpus")
		}

		stats, err := deps.Pipeline.IngestCorpus(ctx, docs)
		if err != nil {
			log.Fatal().Err(err).Int("ingested", stats.Ingested).Msg("Ingestion interrupted")
		}
		log.Info().Int("ingested", stats.Ingested).Int("chunks", stats.Chunks).Msg("Ingestion successful!")
	}
}
