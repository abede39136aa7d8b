package middleware

import (
	"errors"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyQuestion      = errors.New("question must not be empty")
	ErrInvalidTopK        = errors.New("top_k must be between 1 and 20")
	ErrInvalidMaxTokens   = errors.New("max_tokens must be between 0 and 100000")
	ErrInvalidTemperature = errors.New("temperature must be between 0.0 and 1.0")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// HandleError writes err as an ErrorResponse with the given status code.
func HandleError(resp *restful.Response, err error, code int) {
	HandleErrorWithDetails(resp, err.Error(), "", code)
}

func HandleErrorWithDetails(resp *restful.Response, message, details string, code int) {
	body := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	if err := resp.WriteHeaderAndEntity(code, body); err != nil {
		log.Error().Err(err).Int("code", code).Msg("Failed to write error response")
	}
}

