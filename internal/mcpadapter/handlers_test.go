package mcpadapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/povarna/generative-ai-agents/pub-search/internal/agent"
	"github.com/povarna/generative-ai-agents/pub-search/internal/config"
	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	llmmocks "github.com/povarna/generative-ai-agents/pub-search/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/pub-search/internal/middleware"
	retrievalmocks "github.com/povarna/generative-ai-agents/pub-search/internal/retrieval/mocks"
	"github.com/povarna/generative-ai-agents/pub-search/internal/search"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newSearchService(t *testing.T) *search.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	content := `[
		{"name": "Mars dust", "link": "https://example.org/a", "sections": {"Abstract": "dust storms"}},
		{"name": "Solar wind", "link": "https://example.org/b", "sections": {"Results": "dust"}}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write corpus: %v", err)
	}
	return search.NewService(corpus.NewStore(path, testLogger()), testLogger())
}

func TestSearchPublications(t *testing.T) {
	svc := newSearchService(t)

	tests := []struct {
		name     string
		input    SearchInput
		expected int
	}{
		{name: "keyword", input: SearchInput{Query: "dust"}, expected: 2},
		{name: "exact phrase", input: SearchInput{Query: "dust storms", Exact: true}, expected: 1},
		{name: "no match", input: SearchInput{Query: "venus"}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := NewSearchHandler(svc)(context.Background(), nil, tt.input)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if out.Count != tt.expected || len(out.Result) != tt.expected {
				t.Errorf("Expected %d results, got count=%d len=%d", tt.expected, out.Count, len(out.Result))
			}
		})
	}
}

func TestSearchPublications_EmptyQuery(t *testing.T) {
	_, _, err := SearchPublications(context.Background(), newSearchService(t), nil, SearchInput{Query: "  "})

	if !errors.Is(err, search.ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery, got %v", err)
	}
}

func TestAskPublications_Disabled(t *testing.T) {
	_, _, err := NewAskHandler(nil)(context.Background(), nil, AskInput{Question: "bone"})

	if !errors.Is(err, ErrAskDisabled) {
		t.Errorf("Expected ErrAskDisabled, got %v", err)
	}
}

func TestAskPublications(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := llmmocks.NewMockLLMClient(ctrl)
	retriever := retrievalmocks.NewMockRetriever(ctrl)

	retriever.EXPECT().Retrieve(gomock.Any(), "bone loss", 5).Return(nil, nil)
	client.EXPECT().InvokeModelWithRetry(gomock.Any(), gomock.Any()).Return(&llm.LLMResponse{Content: "It drops."}, nil)

	svc, err := agent.NewService(client, retriever, "model", config.DefaultPrompts(), testLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	_, out, err := AskPublications(context.Background(), svc, nil, AskInput{Question: "bone loss"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if out.Answer != "It drops." {
		t.Errorf("Unexpected answer %q", out.Answer)
	}

	_, _, err = AskPublications(context.Background(), svc, nil, AskInput{Question: "bone", TopK: 50})
	if !errors.Is(err, middleware.ErrInvalidTopK) {
		t.Errorf("Expected ErrInvalidTopK, got %v", err)
	}
}
