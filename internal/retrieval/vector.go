package retrieval

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/pub-search/internal/database"
	"github.com/povarna/generative-ai-agents/pub-search/internal/embedding"
)

type ChunkSearcher interface {
	SemanticSearch(ctx context.Context, queryEmbeddings []float32, limit int) ([]database.Chunk, error)
}

// VectorRetriever finds passages by embedding similarity in the vector store.
type VectorRetriever struct {
	embedder embedding.Embedder
	db       ChunkSearcher
}

func NewVectorRetriever(embedder embedding.Embedder, db ChunkSearcher) *VectorRetriever {
	return &VectorRetriever{
		embedder: embedder,
		db:       db,
	}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	embeddings, err := r.embedder.GenerateEmbeddings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Unable to generate embeddings. Error: %w", err)
	}

	chunks, err := r.db.SemanticSearch(ctx, embeddings, topK)
	if err != nil {
		return nil, fmt.Errorf("Unable to run semantic search on the DB. Error: %w", err)
	}

	passages := make([]Passage, 0, len(chunks))
	for _, chunk := range chunks {
		passages = append(passages, Passage{
			Title:   chunk.Title,
			Link:    chunk.Link,
			Content: chunk.Content,
			Score:   DistanceToScore(chunk.Distance),
		})
	}
	return passages, nil
}

// DistanceToScore maps a cosine distance (0 identical, 2 opposite) to a
// similarity in [0, 1].
func DistanceToScore(distance float64) float64 {
	score := 1.0 - distance
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
