package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultModelID    = "amazon.titan-embed-text-v2:0"
	DefaultDimensions = 1024
	batchConcurrency  = 4
)

type Embedder interface {
	GenerateEmbeddings(ctx context.Context, text string) ([]float32, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions"`
	Normalize  bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

// BedrockEmbedder produces Titan text embeddings.
type BedrockEmbedder struct {
	client     invoker
	modelID    string
	dimensions int
	logger     *zerolog.Logger
}

func NewBedrockEmbedder(cfg aws.Config, modelID string, logger *zerolog.Logger) *BedrockEmbedder {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &BedrockEmbedder{
		client:     bedrockruntime.NewFromConfig(cfg),
		modelID:    modelID,
		dimensions: DefaultDimensions,
		logger:     logger,
	}
}

func (e *BedrockEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *BedrockEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanRequest{
		InputText:  text,
		Dimensions: e.dimensions,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke embedding model: %w", err)
	}

	var response titanResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding response: %w", err)
	}
	if len(response.Embedding) != e.dimensions {
		return nil, fmt.Errorf("expected %d dimensions, got %d", e.dimensions, len(response.Embedding))
	}

	return response.Embedding, nil
}

// GenerateBatchEmbeddings embeds texts concurrently and keeps their order.
func (e *BedrockEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, text := range texts {
		g.Go(func() error {
			vector, err := e.GenerateEmbeddings(ctx, text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			embeddings[i] = vector
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug().Int("count", len(texts)).Msg("Embeddings generated")
	return embeddings, nil
}
