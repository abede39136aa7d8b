package agent

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/pub-search/internal/middleware"
	"github.com/rs/zerolog/log"
)

var errRAGDisabled = errors.New("question answering is disabled")

type Handler struct {
	service *Service
}

// NewHandler accepts a nil service; the ask routes then answer 503.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Ask handles POST /api/v1/ask
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	askRequest, ok := h.readRequest(req, resp)
	if !ok {
		return
	}

	log.Info().
		Str("question", askRequest.Question).
		Int("top_k", askRequest.TopK).
		Msg("Process Ask")

	ctx := req.Request.Context()

	askResponse, err := h.service.Ask(ctx, askRequest)
	var blocked *InputBlockedError
	if errors.As(err, &blocked) {
		middleware.HandleErrorWithDetails(resp, "question blocked", blocked.Reason, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to answer question")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, askResponse)
}

// AskStream handles POST /api/v1/ask/stream
func (h *Handler) AskStream(req *restful.Request, resp *restful.Response) {
	askRequest, ok := h.readRequest(req, resp)
	if !ok {
		return
	}

	log.Info().
		Str("question", askRequest.Question).
		Int("top_k", askRequest.TopK).
		Msg("Process Ask Stream")

	ctx := req.Request.Context()

	writer := resp.ResponseWriter
	flusher, ok := writer.(http.Flusher)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	resp.AddHeader("Content-Type", "text/event-stream")
	resp.AddHeader("Cache-Control", "no-cache")
	resp.AddHeader("Connection", "keep-alive")
	resp.AddHeader("X-Accel-Buffering", "no")

	// Once the start event is out the status is committed; failures are
	// reported in-band as an error event.
	if err := h.service.AskStream(ctx, askRequest, flusher, writer); err != nil {
		log.Error().Err(err).Msg("Failed to stream answer")
		return
	}

	flusher.Flush()
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *Handler) ClearCache(req *restful.Request, resp *restful.Response) {
	if h.service == nil {
		middleware.HandleError(resp, errRAGDisabled, http.StatusServiceUnavailable)
		return
	}

	deleted, err := h.service.ClearCache(req.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear cache")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	log.Info().Int64("deleted", deleted).Msg("Answer cache cleared")
	resp.WriteHeaderAndEntity(http.StatusOK, ClearCacheResponse{Deleted: deleted})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:     "ok",
		Version:    "1.0.0",
		RAGEnabled: h.service != nil,
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func (h *Handler) readRequest(req *restful.Request, resp *restful.Response) (AskRequest, bool) {
	var askRequest AskRequest

	if h.service == nil {
		middleware.HandleError(resp, errRAGDisabled, http.StatusServiceUnavailable)
		return askRequest, false
	}

	if err := req.ReadEntity(&askRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return askRequest, false
	}

	askRequest.SetDefaults()
	if err := askRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return askRequest, false
	}
	return askRequest, true
}
