package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	"github.com/povarna/generative-ai-agents/pub-search/internal/llm/mocks"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		response *llm.LLMResponse
		err      error
		expected string
	}{
		{name: "uses the model output", response: &llm.LLMResponse{Content: "  \"microgravity effects on bone density\"\n"}, expected: "microgravity effects on bone density"},
		{name: "falls back on error", err: errors.New("throttled"), expected: "bone loss in space?"},
		{name: "falls back on empty output", response: &llm.LLMResponse{Content: "   "}, expected: "bone loss in space?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mocks.NewMockLLMClient(ctrl)
			client.EXPECT().
				InvokeModel(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, req llm.LLMRequest) (*llm.LLMResponse, error) {
					if !strings.Contains(req.Prompt, "Question: bone loss in space?") {
						t.Errorf("Prompt does not contain the question: %q", req.Prompt)
					}
					return tt.response, tt.err
				})

			rewriter, err := NewRewriter(client, "Question: {{.Question}}", newTestLogger())
			if err != nil {
				t.Fatalf("NewRewriter failed: %v", err)
			}

			if got := rewriter.RewriteQuery(context.Background(), "bone loss in space?"); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewRewriter_InvalidTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	if _, err := NewRewriter(mocks.NewMockLLMClient(ctrl), "{{.Question", newTestLogger()); err == nil {
		t.Error("Expected error for invalid template")
	}
}
