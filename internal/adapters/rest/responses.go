package rest

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/logging"
)

const (
	errCodeInvalidRequest  = "INVALID_REQUEST"
	errCodeNoFeatures      = "NO_FEATURES"
	errCodeUnauthorized    = "UNAUTHORIZED"
	errCodeNotFound        = "NOT_FOUND"
	errCodeTokenExchange   = "TOKEN_EXCHANGE_FAILED"
	errCodeUpstream        = "UPSTREAM_ERROR"
	errCodeUnavailable     = "UPSTREAM_UNAVAILABLE"
	errCodeBadUpstreamBody = "BAD_UPSTREAM_RESPONSE"
	errCodeInternal        = "INTERNAL"
)

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("rest: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Message: message, Code: code})
}

// writeServiceError maps a service error to a status. prefix, when set, is
// prepended to the error text for 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	var statusErr *domain.UpstreamStatusError
	switch {
	case errors.Is(err, domain.ErrNoFeatures):
		writeErrorWithCode(w, http.StatusBadRequest, "No audio features provided", errCodeNoFeatures)
		return
	case errors.Is(err, domain.ErrUnauthorized) && !errors.As(err, &statusErr):
		writeErrorWithCode(w, http.StatusUnauthorized, "Missing Spotify access token", errCodeUnauthorized)
		return
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, "Not found", errCodeNotFound)
		return
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		writeErrorWithCode(w, http.StatusServiceUnavailable, "Upstream service temporarily unavailable", errCodeUnavailable)
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Msg("rest: request failed")
	msg := err.Error()
	if prefix != "" {
		msg = prefix + msg
	}
	writeErrorWithCode(w, http.StatusInternalServerError, msg, errCodeInternal)
}

// isJSONContentType accepts application/json with optional parameters.
func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}

// bearerToken returns the access token from the Authorization header.
func bearerToken(r *http.Request) string {
	return strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
