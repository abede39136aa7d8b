package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/povarna/generative-ai-agents/pub-search/internal/database"
	"github.com/povarna/generative-ai-agents/pub-search/internal/embedding"
	"github.com/rs/zerolog"
)

const batchSize = 25

type DocumentStore interface {
	InsertDocumentWithChunks(ctx context.Context, doc database.Document, chunks []database.NewChunk) error
}

type Pipeline struct {
	parser   *Parser
	chunker  *Chunker
	embedder embedding.Embedder
	store    DocumentStore
	logger   *zerolog.Logger
}

type Stats struct {
	Ingested int
	Skipped  int
	Failed   int
	Chunks   int
}

func NewPipeline(
	parser *Parser,
	chunker *Chunker,
	embedder embedding.Embedder,
	store DocumentStore,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// IngestCorpus stores every publication of c. Publications that failed to
// scrape or carry no text are skipped; a failure on one publication is logged
// and the rest continue.
func (p *Pipeline) IngestCorpus(ctx context.Context, c corpus.Corpus) (Stats, error) {
	var stats Stats

	for _, doc := range c {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		chunks, err := p.IngestDocument(ctx, doc)
		switch {
		case errors.Is(err, ErrScrapeFailed), errors.Is(err, ErrEmptyText):
			p.logger.Debug().Str("name", doc.Name).Err(err).Msg("Skipping publication")
			stats.Skipped++
		case err != nil:
			p.logger.Error().Str("name", doc.Name).Err(err).Msg("Failed to ingest publication")
			stats.Failed++
		default:
			stats.Ingested++
			stats.Chunks += chunks
		}
	}

	p.logger.Info().
		Int("ingested", stats.Ingested).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Int("chunks", stats.Chunks).
		Msg("Ingestion complete")

	return stats, nil
}

// IngestDocument chunks, embeds and stores one publication, returning the number of chunks.
func (p *Pipeline) IngestDocument(ctx context.Context, doc corpus.Document) (int, error) {
	parsed, err := p.parser.ParseDocument(doc)
	if err != nil {
		return 0, err
	}

	chunks := p.chunker.ChunkText(parsed.Content)
	if len(chunks) == 0 {
		return 0, ErrEmptyText
	}

	stored := make([]database.NewChunk, 0, len(chunks))
	for i := 0; i < len(chunks); i += batchSize {
		batch := chunks[i:min(i+batchSize, len(chunks))]

		contents := make([]string, 0, len(batch))
		for _, chunk := range batch {
			contents = append(contents, chunk.Content)
		}

		embeddings, err := p.embedder.GenerateBatchEmbeddings(ctx, contents)
		if err != nil {
			return 0, fmt.Errorf("Failed to generate embeddings. Error: %w", err)
		}

		for j, chunk := range batch {
			stored = append(stored, database.NewChunk{
				Index:     chunk.Index,
				Content:   chunk.Content,
				Embedding: embeddings[j],
				Metadata: map[string]any{
					"start": chunk.Start,
					"end":   chunk.End,
					"link":  parsed.Link,
				},
			})
		}
	}

	record := database.Document{
		Id:       parsed.ID,
		Title:    parsed.Title,
		Link:     parsed.Link,
		Content:  parsed.Content,
		Metadata: parsed.Metadata,
	}
	if err := p.store.InsertDocumentWithChunks(ctx, record, stored); err != nil {
		return 0, fmt.Errorf("failed to store document: %w", err)
	}

	p.logger.Info().Str("doc_id", parsed.ID).Str("title", parsed.Title).Int("chunks", len(stored)).Msg("Publication ingested")
	return len(stored), nil
}
