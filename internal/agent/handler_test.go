package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/pub-search/internal/guardrails"
	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
	llmmocks "github.com/povarna/generative-ai-agents/pub-search/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/pub-search/internal/middleware"
	retrievalmocks "github.com/povarna/generative-ai-agents/pub-search/internal/retrieval/mocks"
	"go.uber.org/mock/gomock"
)

func setupContainer(service *Service) *restful.Container {
	container := restful.NewContainer()
	RegisterRoutes(container, NewHandler(service))
	return container
}

func postJSON(container *restful.Container, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		service *Service
		rag     bool
	}{
		{name: "rag disabled", service: nil, rag: false},
		{name: "rag enabled", service: &Service{}, rag: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container := setupContainer(tt.service)
			recorder := httptest.NewRecorder()
			container.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			if recorder.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", recorder.Code)
			}

			var health HealthResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &health); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if health.Status != "ok" || health.RAGEnabled != tt.rag {
				t.Errorf("Unexpected health %+v", health)
			}
		})
	}
}

func TestAsk_RAGDisabled(t *testing.T) {
	container := setupContainer(nil)

	for _, path := range []string{"/api/v1/ask", "/api/v1/ask/stream", "/api/v1/admin/cache/clear"} {
		recorder := postJSON(container, path, `{"question":"bone"}`)
		if recorder.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected status 503, got %d", path, recorder.Code)
			continue
		}

		var body middleware.ErrorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: failed to parse error response: %v", path, err)
			continue
		}
		if body.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: unexpected error body %+v", path, body)
		}
	}
}

func TestAsk_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(t, llmmocks.NewMockLLMClient(ctrl), retrievalmocks.NewMockRetriever(ctrl))
	container := setupContainer(service)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "empty question", body: `{"question":"  "}`, message: middleware.ErrEmptyQuestion.Error()},
		{name: "top_k too large", body: `{"question":"bone","top_k":21}`, message: middleware.ErrInvalidTopK.Error()},
		{name: "negative top_k", body: `{"question":"bone","top_k":-1}`, message: middleware.ErrInvalidTopK.Error()},
		{name: "temperature out of range", body: `{"question":"bone","temperature":1.5}`, message: middleware.ErrInvalidTemperature.Error()},
		{name: "max tokens too large", body: `{"question":"bone","max_tokens":200000}`, message: middleware.ErrInvalidMaxTokens.Error()},
	}

	for _, path := range []string{"/api/v1/ask", "/api/v1/ask/stream"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				recorder := postJSON(container, path, tt.body)

				if recorder.Code != http.StatusBadRequest {
					t.Fatalf("Expected status 400, got %d", recorder.Code)
				}

				var body middleware.ErrorResponse
				if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
					t.Fatalf("Failed to parse error response: %v", err)
				}
				if body.Error != tt.message {
					t.Errorf("Expected error %q, got %q", tt.message, body.Error)
				}
			})
		}
	}
}

func TestAskStream_ValidationWithEventStreamAccept(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(t, llmmocks.NewMockLLMClient(ctrl), retrievalmocks.NewMockRetriever(ctrl))
	container := setupContainer(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask/stream", bytes.NewBufferString(`{"question":"bone","top_k":99}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
	var body middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if body.Error != middleware.ErrInvalidTopK.Error() {
		t.Errorf("Unexpected error body %+v", body)
	}
}

func TestAsk_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := llmmocks.NewMockLLMClient(ctrl)
	retriever := retrievalmocks.NewMockRetriever(ctrl)

	retriever.EXPECT().Retrieve(gomock.Any(), "bone", defaultTopK).Return(testPassages, nil)
	client.EXPECT().InvokeModelWithRetry(gomock.Any(), gomock.Any()).Return(&llm.LLMResponse{Content: "answer"}, nil)

	container := setupContainer(newTestService(t, client, retriever))
	recorder := postJSON(container, "/api/v1/ask", `{"question":"bone"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var resp AskResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Answer != "answer" || len(resp.Sources) != len(testPassages) {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestAskStream_Headers(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := llmmocks.NewMockLLMClient(ctrl)
	retriever := retrievalmocks.NewMockRetriever(ctrl)

	retriever.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	client.EXPECT().
		InvokeModelStream(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&llm.LLMResponse{StopReason: "end_turn"}, nil)

	container := setupContainer(newTestService(t, client, retriever))
	recorder := postJSON(container, "/api/v1/ask/stream", `{"question":"bone"}`)

	if ct := recorder.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}
	if !strings.Contains(recorder.Body.String(), "event: done") {
		t.Errorf("Expected done event, got:\n%s", recorder.Body.String())
	}
}

func TestAsk_BlockedQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(t, llmmocks.NewMockLLMClient(ctrl), retrievalmocks.NewMockRetriever(ctrl),
		WithGuardrails(guardrails.NewGuardrails(nil, testLogger())))
	container := setupContainer(service)

	recorder := postJSON(container, "/api/v1/ask", `{"question":"my ssn is 123-45-6789"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
	var body middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if body.Error != "question blocked" || body.Details == "" {
		t.Errorf("Unexpected error body %+v", body)
	}
}
