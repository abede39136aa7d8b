package strategy

import (
	"context"
	"errors"
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

func TestDecide_Heuristics(t *testing.T) {
	tests := []struct {
		question     string
		shouldSearch bool
		reason       string
	}{
		{question: "Hello!", shouldSearch: false, reason: "Simple greeting"},
		{question: "Thank you", shouldSearch: false, reason: "Simple greeting"},
		{question: "why?", shouldSearch: false, reason: "Too short to search"},
		{question: "What happens to mice in microgravity?", shouldSearch: true, reason: "Mentions research terms"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No model call is expected for confident heuristics.
			s := NewRetrievalStrategy(mocks.NewMockLLMClient(ctrl), newTestLogger())

			decision := s.Decide(context.Background(), tt.question)
			if decision.ShouldSearch != tt.shouldSearch || decision.Reason != tt.reason {
				t.Errorf("Unexpected decision %+v", decision)
			}
		})
	}
}

func TestDecide_AsksModelWhenUnsure(t *testing.T) {
	tests := []struct {
		name         string
		response     *llm.LLMResponse
		err          error
		shouldSearch bool
	}{
		{name: "model says search", response: &llm.LLMResponse{Content: "DECISION: SEARCH\nREASON: factual"}, shouldSearch: true},
		{name: "model says no search", response: &llm.LLMResponse{Content: "DECISION: NO_SEARCH\nREASON: chit-chat"}, shouldSearch: false},
		{name: "model fails", err: errors.New("throttled"), shouldSearch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mocks.NewMockLLMClient(ctrl)
			client.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(tt.response, tt.err)

			s := NewRetrievalStrategy(client, newTestLogger())
			decision := s.Decide(context.Background(), "Who are you, and what can you do?")
			if decision.ShouldSearch != tt.shouldSearch {
				t.Errorf("Expected ShouldSearch=%v, got %+v", tt.shouldSearch, decision)
			}
		})
	}
}

func TestDecide_NoClientUsesHeuristic(t *testing.T) {
	s := NewRetrievalStrategy(nil, newTestLogger())

	decision := s.Decide(context.Background(), "Who are you, and what can you do?")
	if !decision.ShouldSearch || decision.Confidence != 0.70 {
		t.Errorf("Expected default heuristic, got %+v", decision)
	}
}
