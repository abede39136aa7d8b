package setup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"CORPUS_PATH", "API_PORT", "RAG_ENABLED", "REDIS_TTL", "CHUNK_SIZE", "VECTOR_DB_HOST"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.CorpusPath != "data/data.json" {
		t.Errorf("Expected default corpus path, got %q", cfg.CorpusPath)
	}
	if cfg.APIPort != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.APIPort)
	}
	if cfg.RAGEnabled {
		t.Error("Expected RAG disabled by default")
	}
	if cfg.RedisTTL != 30*time.Minute {
		t.Errorf("Expected default TTL 30m, got %v", cfg.RedisTTL)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("Expected default chunk size 1000, got %d", cfg.ChunkSize)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CORPUS_PATH", "/srv/data.json")
	t.Setenv("RAG_ENABLED", "true")
	t.Setenv("REDIS_TTL", "5m")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("VECTOR_DB_HOST", "db")

	cfg := LoadConfig()

	if cfg.CorpusPath != "/srv/data.json" {
		t.Errorf("Unexpected corpus path %q", cfg.CorpusPath)
	}
	if !cfg.RAGEnabled {
		t.Error("Expected RAG enabled")
	}
	if cfg.RedisTTL != 5*time.Minute {
		t.Errorf("Unexpected TTL %v", cfg.RedisTTL)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("Unexpected chunk size %d", cfg.ChunkSize)
	}
	if cfg.VectorDB.Host != "db" || cfg.VectorDB.Port != "5432" {
		t.Errorf("Unexpected vector db config %+v", cfg.VectorDB)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RAG_ENABLED", "maybe")
	t.Setenv("REDIS_TTL", "soon")
	t.Setenv("CHUNK_OVERLAP", "lots")

	cfg := LoadConfig()

	if cfg.RAGEnabled {
		t.Error("Expected invalid bool to fall back to false")
	}
	if cfg.RedisTTL != 30*time.Minute {
		t.Errorf("Expected fallback TTL, got %v", cfg.RedisTTL)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("Expected fallback overlap, got %d", cfg.ChunkOverlap)
	}
}

func TestWire_SearchOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`[{"name": "Mars dust", "link": "l", "sections": {"A": "dust"}}]`), 0o644); err != nil {
		t.Fatalf("Failed to write corpus: %v", err)
	}

	deps, err := Wire(context.Background(), &Config{CorpusPath: path}, testLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if deps.Agent != nil {
		t.Error("Expected no agent when RAG is disabled")
	}

	results, err := deps.Search.SearchStore(context.Background(), "dust", false)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestWireIngestion_RequiresVectorStore(t *testing.T) {
	_, err := WireIngestion(context.Background(), &Config{}, testLogger())

	if !errors.Is(err, ErrVectorStoreDisabled) {
		t.Errorf("Expected ErrVectorStoreDisabled, got %v", err)
	}
}
