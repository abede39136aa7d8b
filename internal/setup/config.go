package setup

import (
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/pub-search/internal/database"
)

type Config struct {
	CorpusPath string
	APIPort    string
	StaticDir  string
	LogLevel   string
	LogFormat  string

	RAGEnabled        bool
	AWSRegion         string
	ClaudeModelID     string
	ClaudeMiniModelID string
	EmbeddingModelID  string
	GuardrailsEnabled bool

	// VectorDB.Host empty disables vector retrieval.
	VectorDB     database.Config
	ChunkSize    int
	ChunkOverlap int

	// RedisAddr empty disables the answer cache.
	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CorpusPath: getEnv("CORPUS_PATH", "data/data.json"),
		APIPort:    getEnv("API_PORT", "8080"),
		StaticDir:  getEnv("STATIC_DIR", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),

		RAGEnabled:        getEnvBool("RAG_ENABLED", false),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
		ClaudeMiniModelID: getEnv("CLAUDE_MINI_MODEL_ID", ""),
		EmbeddingModelID:  getEnv("EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),
		GuardrailsEnabled: getEnvBool("GUARDRAILS_ENABLED", true),

		VectorDB: database.Config{
			Host:     getEnv("VECTOR_DB_HOST", ""),
			Port:     getEnv("VECTOR_DB_PORT", "5432"),
			User:     getEnv("VECTOR_DB_USER", "postgres"),
			Password: getEnv("VECTOR_DB_PASSWORD", ""),
			Database: getEnv("VECTOR_DB_NAME", "publications"),
			SSLMode:  getEnv("VECTOR_DB_SSLMODE", "disable"),
		},
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTTL:      getEnvDuration("REDIS_TTL", 30*time.Minute),
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
