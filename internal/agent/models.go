package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/pub-search/internal/middleware"
)

const (
	defaultTopK = 5
	maxTopK     = 20
)

type AskRequest struct {
	Question    string   `json:"question" description:"Question about the publications"`
	TopK        int      `json:"top_k,omitempty" description:"Number of passages used as context (default: 5, max: 20)"`
	MaxTokens   int      `json:"max_tokens,omitempty" description:"Maximum tokens to generate (default from prompts config)"`
	Temperature *float64 `json:"temperature,omitempty" description:"Temperature for generation (0.0-1.0, default from prompts config)"`
}

type Source struct {
	Title string  `json:"title"`
	Link  string  `json:"link"`
	Score float64 `json:"score"`
}

type AskResponse struct {
	Answer  string   `json:"answer" description:"Model answer citing sources as [n]"`
	Sources []Source `json:"sources" description:"Publications used as context, in citation order"`
	Model   string   `json:"model" description:"Model ID used"`
	Cached  bool     `json:"cached" description:"Whether the answer came from the cache"`
}

type HealthResponse struct {
	Status     string `json:"status" description:"Service status"`
	Version    string `json:"version" description:"API version"`
	RAGEnabled bool   `json:"rag_enabled" description:"Whether the ask endpoints are available"`
}

type ClearCacheResponse struct {
	Deleted int64 `json:"deleted"`
}

func (q *AskRequest) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return middleware.ErrEmptyQuestion
	}

	if q.TopK < 1 || q.TopK > maxTopK {
		return middleware.ErrInvalidTopK
	}

	if q.MaxTokens < 0 || q.MaxTokens > 100000 {
		return middleware.ErrInvalidMaxTokens
	}

	if q.Temperature != nil && (*q.Temperature < 0.0 || *q.Temperature > 1.0) {
		return middleware.ErrInvalidTemperature
	}
	return nil
}

func (q *AskRequest) SetDefaults() {
	if q.TopK == 0 {
		q.TopK = defaultTopK
	}
}

// InputBlockedError is returned when guardrails reject a question.
type InputBlockedError struct {
	Category string
	Reason   string
}

func (e *InputBlockedError) Error() string {
	return fmt.Sprintf("question blocked (%s): %s", e.Category, e.Reason)
}

type SSEEvent struct {
	Event string      `json:"-"`
	Data  interface{} `json:"-"`
}

// SSE event payloads
type StreamStartEvent struct {
	Model   string   `json:"model"`
	Sources []Source `json:"sources"`
}

type StreamChunkEvent struct {
	Text string `json:"text"`
}

type StreamDoneEvent struct {
	StopReason string `json:"stop_reason"`
}

type StreamErrorEvent struct {
	Error string `json:"error"`
}

func (e SSEEvent) Format() (string, error) {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, string(jsonData)), nil
}
