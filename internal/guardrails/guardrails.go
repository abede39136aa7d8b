package guardrails

import (
	"context"

	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	"github.com/rs/zerolog"
)

type Guardrails struct {
	staticValidator *StaticValidator
	llmValidator    *LLMValidator
	logger          *zerolog.Logger
}

// NewGuardrails runs the static rules and, when client is not nil, an LLM
// check on inputs the static rules let through.
func NewGuardrails(client llm.LLMClient, logger *zerolog.Logger) *Guardrails {
	g := &Guardrails{
		staticValidator: NewStaticValidator(DefaultBanWords),
		logger:          logger,
	}
	if client != nil {
		g.llmValidator = NewLLMValidator(client)
	}
	return g
}

func (g *Guardrails) ValidateInput(ctx context.Context, input string) ValidationResult {
	// Run static rules first (fast, free)
	result := g.staticValidator.Validate(input)
	if !result.IsValid {
		g.logger.Info().Str("method", "static").Str("reason", result.Reason).Msg("Input blocked by static rules")
		return result
	}

	if g.llmValidator != nil {
		result = g.llmValidator.Validate(ctx, input)
		if !result.IsValid {
			g.logger.Warn().
				Str("method", "llm").
				Str("category", result.Category).
				Str("reason", result.Reason).
				Msg("Input blocked by LLM validator")
		}
		return result
	}

	// All checks passed
	return result
}
