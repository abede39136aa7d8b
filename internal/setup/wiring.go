package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/pub-search/internal/agent"
	"github.com/povarna/generative-ai-agents/pub-search/internal/cache"
	"github.com/povarna/generative-ai-agents/pub-search/internal/config"
	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/povarna/generative-ai-agents/pub-search/internal/database"
	"github.com/povarna/generative-ai-agents/pub-search/internal/embedding"
	"github.com/povarna/generative-ai-agents/pub-search/internal/guardrails"
	"github.com/povarna/generative-ai-agents/pub-search/internal/ingestion"
	"github.com/povarna/generative-ai-agents/pub-search/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/pub-search/internal/redis"
	"github.com/povarna/generative-ai-agents/pub-search/internal/retrieval"
	"github.com/povarna/generative-ai-agents/pub-search/internal/rewrite"
	"github.com/povarna/generative-ai-agents/pub-search/internal/search"
	"github.com/povarna/generative-ai-agents/pub-search/internal/strategy"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const answerCachePrefix = "answer_cache"

var ErrVectorStoreDisabled = errors.New("VECTOR_DB_HOST is not set")

type Dependencies struct {
	Store  *corpus.Store
	Search *search.Service
	// Agent is nil when RAG is disabled.
	Agent  *agent.Service
	DB     *database.DB
	Redis  *goredis.Client
	Logger *zerolog.Logger
}

// Close releases every connection opened by Wire.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	store := corpus.NewStore(cfg.CorpusPath, logger)
	deps := &Dependencies{
		Store:  store,
		Search: search.NewService(store, logger),
		Logger: logger,
	}

	if !cfg.RAGEnabled {
		logger.Info().Msg("RAG disabled, serving search only")
		return deps, nil
	}

	if err := wireAgent(ctx, cfg, deps); err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

func wireAgent(ctx context.Context, cfg *Config, deps *Dependencies) error {
	logger := deps.Logger

	awsCfg, err := bedrock.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	llmClient := bedrock.NewClient(awsCfg, cfg.ClaudeModelID, logger)
	miniClient := llmClient
	if cfg.ClaudeMiniModelID != "" {
		miniClient = bedrock.NewClient(awsCfg, cfg.ClaudeMiniModelID, logger)
	}

	logger.Info().
		Str("region", cfg.AWSRegion).
		Str("model", cfg.ClaudeModelID).
		Msg("Bedrock client initialized")

	prompts, err := config.LoadPromptsConfig()
	if err != nil {
		return fmt.Errorf("failed to load prompts config: %w", err)
	}

	retrievers := []retrieval.Retriever{retrieval.NewKeywordRetriever(deps.Search)}
	if cfg.VectorDB.Host != "" {
		db, err := database.New(ctx, cfg.VectorDB)
		if err != nil {
			return err
		}
		deps.DB = db

		embedder := embedding.NewBedrockEmbedder(awsCfg, cfg.EmbeddingModelID, logger)
		retrievers = append(retrievers, retrieval.NewVectorRetriever(embedder, db))
	}
	retriever := retrieval.NewHybridRetriever(logger, retrievers...)

	rewriter, err := rewrite.NewRewriter(miniClient, prompts.Rewrite, logger)
	if err != nil {
		return err
	}

	opts := []agent.Option{
		agent.WithRewriter(rewriter),
		agent.WithRetrievalStrategy(strategy.NewRetrievalStrategy(miniClient, logger)),
	}

	if cfg.GuardrailsEnabled {
		opts = append(opts, agent.WithGuardrails(guardrails.NewGuardrails(miniClient, logger)))
	}

	if cfg.RedisAddr != "" {
		client, err := redis.ConnectRedis(ctx, redis.Config{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			MaxRetries: 5,
		}, logger)
		if err != nil {
			// Answers still work without the cache.
			logger.Warn().Err(err).Msg("Answer cache disabled")
		} else {
			deps.Redis = client
			opts = append(opts, agent.WithCache(cache.NewRedisCache(client, answerCachePrefix, cfg.RedisTTL, logger)))
		}
	}

	service, err := agent.NewService(llmClient, retriever, cfg.ClaudeModelID, prompts, logger, opts...)
	if err != nil {
		return err
	}
	deps.Agent = service
	return nil
}

type IngestionDependencies struct {
	Pipeline *ingestion.Pipeline
	DB       *database.DB
}

// WireIngestion connects the vector store, makes sure its schema exists and
// builds the ingestion pipeline.
func WireIngestion(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*IngestionDependencies, error) {
	if cfg.VectorDB.Host == "" {
		return nil, ErrVectorStoreDisabled
	}

	awsCfg, err := bedrock.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	embedder := embedding.NewBedrockEmbedder(awsCfg, cfg.EmbeddingModelID, logger)

	db, err := database.New(ctx, cfg.VectorDB)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx, embedder.Dimensions()); err != nil {
		db.Close()
		return nil, err
	}

	pipeline := ingestion.NewPipeline(
		ingestion.NewParser(),
		ingestion.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		db,
		logger,
	)

	return &IngestionDependencies{Pipeline: pipeline, DB: db}, nil
}
