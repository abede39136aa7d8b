package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	"github.com/rs/zerolog"
)

// RetrievalStrategy decides whether a question needs publication context.
type RetrievalStrategy struct {
	client llm.LLMClient
	logger *zerolog.Logger
}

func NewRetrievalStrategy(client llm.LLMClient, logger *zerolog.Logger) *RetrievalStrategy {
	return &RetrievalStrategy{
		client: client,
		logger: logger,
	}
}

type Decision struct {
	ShouldSearch bool
	Reason       string
	Confidence   float64 //0.0 to 1.0
}

const heuristicThreshold = 0.85

func (r *RetrievalStrategy) Decide(ctx context.Context, question string) Decision {
	heuristicDecision := r.heuristicDecide(question)

	if heuristicDecision.Confidence >= heuristicThreshold || r.client == nil {
		r.logger.Debug().Str("method", "heuristic").Str("reason", heuristicDecision.Reason).Msg("Retrieval decision")
		return heuristicDecision
	}

	return r.llmDecide(ctx, question)
}

func (r *RetrievalStrategy) heuristicDecide(question string) Decision {
	question = strings.ToLower(strings.TrimSpace(question))
	question = strings.TrimRight(question, "!?. ")

	if isSimpleGreeting(question) {
		return Decision{
			ShouldSearch: false,
			Reason:       "Simple greeting",
			Confidence:   0.95,
		}
	}

	if len(question) < 5 {
		return Decision{
			ShouldSearch: false,
			Reason:       "Too short to search",
			Confidence:   0.95,
		}
	}

	if mentionsResearchTerm(question) {
		return Decision{
			ShouldSearch: true,
			Reason:       "Mentions research terms",
			Confidence:   0.90,
		}
	}

	return Decision{true, "Default: search for quality", 0.70}
}

func isSimpleGreeting(question string) bool {
	simpleGreetings := []string{
		"hello", "hi", "hey", "thanks", "thank you", "bye", "goodbye", "ok", "okay", "yes", "no",
	}

	for _, word := range simpleGreetings {
		if word == question {
			return true
		}
	}
	return false
}

func mentionsResearchTerm(question string) bool {
	terms := []string{
		"study", "studies", "publication", "paper", "experiment", "result",
		"microgravity", "spaceflight", "radiation", "mice", "cells", "plants",
	}

	for _, term := range terms {
		if strings.Contains(question, term) {
			return true
		}
	}
	return false
}

func (r *RetrievalStrategy) llmDecide(ctx context.Context, question string) Decision {
	response, err := r.client.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      buildClassificationPrompt(question),
		MaxTokens:   100,
		Temperature: 0.0,
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("LLM classification failed, defaulting to search")
		return Decision{
			ShouldSearch: true,
			Reason:       "LLM failed, safe default",
			Confidence:   0.60,
		}
	}

	content := strings.ToUpper(response.Content)
	return Decision{
		ShouldSearch: !strings.Contains(content, "NO_SEARCH"),
		Reason:       "LLM classification",
		Confidence:   0.90,
	}
}

func buildClassificationPrompt(question string) string {
	return fmt.Sprintf(`You are a search decision classifier for a space biology research assistant.

Current User Question: "%s"

Task: Decide if we need to search the publication corpus.

Answer NO_SEARCH if:
- This is a greeting, pleasantry, or acknowledgment
- The question is about the assistant itself

Answer SEARCH if:
- The question asks about research findings, experiments or organisms
- The answer needs specific publications

Respond EXACTLY in this format:
DECISION: [SEARCH or NO_SEARCH]
REASON: [brief explanation]`, question)
}
