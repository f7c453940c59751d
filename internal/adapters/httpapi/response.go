package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorCode classifies API errors for the dashboard
type ErrorCode string

const (
	ErrorCodeInternal     ErrorCode = "internal_server_error"
	ErrorCodeBadRequest   ErrorCode = "bad_request"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeInvalidRange ErrorCode = "invalid_range"
)

// APIError is the JSON body of every non-2xx response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func respondWithError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	respondWithJSON(w, status, APIError{Code: code, Message: message})
}
