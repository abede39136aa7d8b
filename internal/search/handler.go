package search

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/povarna/generative-ai-agents/pub-search/internal/middleware"
	"github.com/rs/zerolog"
)

type SearchHandler struct {
	service *Service
	logger  *zerolog.Logger
}

func NewSearchHandler(search *Service, logger *zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		service: search,
		logger:  logger,
	}
}

// Find handles GET /search?query=&exact=
func (h *SearchHandler) Find(req *restful.Request, resp *restful.Response) {
	query := req.QueryParameter("query")

	exact := false
	if raw := req.QueryParameter("exact"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.HandleErrorWithDetails(resp, "invalid exact flag", err.Error(), http.StatusBadRequest)
			return
		}
		exact = parsed
	}

	results, err := h.service.SearchStore(req.Request.Context(), query, exact)
	if err != nil {
		h.handleError(resp, err, query)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, results)
}

// Search handles POST /search
func (h *SearchHandler) Search(req *restful.Request, resp *restful.Response) {
	var searchReq SearchRequest
	if err := req.ReadEntity(&searchReq); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	results, err := h.service.SearchStore(req.Request.Context(), searchReq.Query, searchReq.Exact)
	if err != nil {
		h.handleError(resp, err, searchReq.Query)
		return
	}

	response := SearchResponse{
		Query:  searchReq.Query,
		Exact:  searchReq.Exact,
		Result: results,
		Count:  len(results),
	}

	resp.WriteHeaderAndEntity(http.StatusOK, response)
}

func (h *SearchHandler) handleError(resp *restful.Response, err error, query string) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		middleware.HandleError(resp, err, http.StatusBadRequest)
	case errors.Is(err, corpus.ErrCorpusUnavailable):
		h.logger.Error().Err(err).Msg("Corpus unavailable")
		middleware.HandleErrorWithDetails(resp, "corpus unavailable", err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, corpus.ErrCorpusFormat):
		h.logger.Error().Err(err).Msg("Corpus could not be parsed")
		middleware.HandleErrorWithDetails(resp, "invalid corpus format", err.Error(), http.StatusInternalServerError)
	default:
		h.logger.Error().Err(err).Str("query", query).Msg("Search failed")
		middleware.HandleErrorWithDetails(resp, "internal error", "", http.StatusInternalServerError)
	}
}
