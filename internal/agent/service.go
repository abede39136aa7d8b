package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/povarna/generative-ai-agents/pub-search/internal/cache"
	"github.com/povarna/generative-ai-agents/pub-search/internal/config"
	"github.com/povarna/generative-ai-agents/pub-search/internal/guardrails"
	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	"github.com/povarna/generative-ai-agents/pub-search/internal/retrieval"
	"github.com/povarna/generative-ai-agents/pub-search/internal/rewrite"
	"github.com/povarna/generative-ai-agents/pub-search/internal/strategy"
	"github.com/rs/zerolog"
)

type Service struct {
	llmClient llm.LLMClient
	retriever retrieval.Retriever
	modelID   string
	prompts   *config.PromptsConfig
	answer    *template.Template
	logger    *zerolog.Logger

	// Optional collaborators; nil disables the step.
	rewriter          *rewrite.Rewriter
	retrievalStrategy *strategy.RetrievalStrategy
	cache             cache.AnswerCache
	guardrails        *guardrails.Guardrails
}

type Option func(*Service)

func WithRewriter(r *rewrite.Rewriter) Option {
	return func(s *Service) { s.rewriter = r }
}

func WithRetrievalStrategy(r *strategy.RetrievalStrategy) Option {
	return func(s *Service) { s.retrievalStrategy = r }
}

func WithCache(c cache.AnswerCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithGuardrails(g *guardrails.Guardrails) Option {
	return func(s *Service) { s.guardrails = g }
}

func NewService(
	llmClient llm.LLMClient,
	retriever retrieval.Retriever,
	modelID string,
	prompts *config.PromptsConfig,
	logger *zerolog.Logger,
	opts ...Option,
) (*Service, error) {
	answer, err := template.New("answer").Parse(prompts.Answer)
	if err != nil {
		return nil, fmt.Errorf("invalid answer prompt: %w", err)
	}

	s := &Service{
		llmClient: llmClient,
		retriever: retriever,
		modelID:   modelID,
		prompts:   prompts,
		answer:    answer,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type promptPassage struct {
	Index   int
	Title   string
	Link    string
	Content string
}

type promptData struct {
	Question string
	Passages []promptPassage
}

// Ask answers a question from retrieved publication passages.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	if err := s.screen(ctx, req.Question); err != nil {
		return nil, err
	}

	key := cache.Key(req.Question, req.TopK)
	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}

	request, sources, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	response, err := s.llmClient.InvokeModelWithRetry(ctx, request)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to invoke model")
		return nil, err
	}

	answer := &AskResponse{
		Answer:  response.Content,
		Sources: sources,
		Model:   s.model(response),
	}
	s.store(ctx, key, answer)

	return answer, nil
}

// AskStream answers like Ask but writes the answer as server-sent events.
func (s *Service) AskStream(ctx context.Context, req AskRequest, flusher http.Flusher, writer io.Writer) error {
	send := func(event SSEEvent) {
		formatted, err := event.Format()
		if err != nil {
			s.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to format event")
			return
		}
		fmt.Fprint(writer, formatted)
		flusher.Flush()
	}

	if err := s.screen(ctx, req.Question); err != nil {
		send(SSEEvent{Event: "error", Data: StreamErrorEvent{Error: err.Error()}})
		return err
	}

	request, sources, err := s.prepare(ctx, req)
	if err != nil {
		send(SSEEvent{Event: "error", Data: StreamErrorEvent{Error: err.Error()}})
		return err
	}

	send(SSEEvent{Event: "start", Data: StreamStartEvent{Model: s.modelID, Sources: sources}})

	response, err := s.llmClient.InvokeModelStream(ctx, request, func(chunk string) error {
		send(SSEEvent{Event: "chunk", Data: StreamChunkEvent{Text: chunk}})
		return nil
	})
	if err != nil {
		send(SSEEvent{Event: "error", Data: StreamErrorEvent{Error: err.Error()}})
		return err
	}

	send(SSEEvent{Event: "done", Data: StreamDoneEvent{StopReason: response.StopReason}})

	s.store(ctx, cache.Key(req.Question, req.TopK), &AskResponse{
		Answer:  response.Content,
		Sources: sources,
		Model:   s.model(response),
	})
	return nil
}

// ClearCache drops every cached answer.
func (s *Service) ClearCache(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.Clear(ctx)
}

func (s *Service) screen(ctx context.Context, question string) error {
	if s.guardrails == nil {
		return nil
	}
	result := s.guardrails.ValidateInput(ctx, question)
	if result.IsValid {
		return nil
	}
	return &InputBlockedError{Category: result.Category, Reason: result.Reason}
}

// prepare retrieves context and renders the model request. Retrieval problems
// degrade to an answer without context.
func (s *Service) prepare(ctx context.Context, req AskRequest) (llm.LLMRequest, []Source, error) {
	var passages []retrieval.Passage

	shouldSearch := true
	if s.retrievalStrategy != nil {
		decision := s.retrievalStrategy.Decide(ctx, req.Question)
		shouldSearch = decision.ShouldSearch
	}

	if shouldSearch {
		query := req.Question
		if s.rewriter != nil {
			query = s.rewriter.RewriteQuery(ctx, req.Question)
		}

		var err error
		passages, err = s.retriever.Retrieve(ctx, query, req.TopK)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Retrieval failed, continuing without context")
			passages = nil
		}
	}

	data := promptData{Question: req.Question}
	sources := make([]Source, 0, len(passages))
	for i, p := range passages {
		data.Passages = append(data.Passages, promptPassage{
			Index:   i + 1,
			Title:   p.Title,
			Link:    p.Link,
			Content: p.Content,
		})
		sources = append(sources, Source{Title: p.Title, Link: p.Link, Score: p.Score})
	}

	var prompt bytes.Buffer
	if err := s.answer.Execute(&prompt, data); err != nil {
		return llm.LLMRequest{}, nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	request := llm.LLMRequest{
		System:      s.prompts.System,
		Prompt:      prompt.String(),
		MaxTokens:   s.prompts.Model.MaxTokens,
		Temperature: s.prompts.Model.Temperature,
	}
	if req.MaxTokens > 0 {
		request.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		request.Temperature = *req.Temperature
	}

	s.logger.Info().
		Int("passages", len(passages)).
		Bool("searched", shouldSearch).
		Msg("Prompt prepared")

	return request, sources, nil
}

func (s *Service) model(response *llm.LLMResponse) string {
	if response.Model != "" {
		return response.Model
	}
	return s.modelID
}

func (s *Service) cached(ctx context.Context, key string) (*AskResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var answer AskResponse
	if err := json.Unmarshal(data, &answer); err != nil {
		s.logger.Warn().Err(err).Msg("Ignoring unreadable cache entry")
		return nil, false
	}
	answer.Cached = true
	return &answer, true
}

func (s *Service) store(ctx context.Context, key string, answer *AskResponse) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode answer for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn().Err(err).Msg("Cache write failed")
	}
}
