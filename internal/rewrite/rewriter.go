package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	"github.com/rs/zerolog"
)

type Rewriter struct {
	client llm.LLMClient
	prompt *template.Template
	logger *zerolog.Logger
}

func NewRewriter(client llm.LLMClient, prompt string, logger *zerolog.Logger) (*Rewriter, error) {
	tmpl, err := template.New("rewrite").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("invalid rewrite prompt: %w", err)
	}
	return &Rewriter{
		client: client,
		prompt: tmpl,
		logger: logger,
	}, nil
}

// RewriteQuery turns a question into a search query. Any failure falls back
// to the original question.
func (r *Rewriter) RewriteQuery(ctx context.Context, originalQuery string) string {
	var prompt bytes.Buffer
	if err := r.prompt.Execute(&prompt, struct{ Question string }{originalQuery}); err != nil {
		r.logger.Error().Err(err).Msg("Failed to render rewrite prompt")
		return originalQuery
	}

	response, err := r.client.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      prompt.String(),
		MaxTokens:   200,
		Temperature: 0.2, // Low temperature for consistent rewrite
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to rewrite query")
		return originalQuery
	}

	rewritten := strings.Trim(strings.TrimSpace(response.Content), `"`)
	if rewritten == "" {
		return originalQuery
	}

	r.logger.Info().
		Str("original", originalQuery).
		Str("rewritten", rewritten).
		Msg("Query rewrite")

	return rewritten
}
