package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

// saveResultRequest is a result the client wants to share.
type saveResultRequest struct {
	MBTI       string           `json:"mbti" validate:"required,len=4,alpha"`
	Summary    string           `json:"summary" validate:"required"`
	Breakdown  domain.Breakdown `json:"breakdown"`
	TracksUsed []map[string]any `json:"tracks_used" validate:"required"`
	User       *string          `json:"user"`
	SpotifyID  *string          `json:"spotify_id"`
}

type saveResultResponse struct {
	ResultID string `json:"result_id"`
}

// SaveResult handles POST /save-result
func (h *Handler) SaveResult(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req saveResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "Invalid request body", errCodeInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, validationMessage(err), errCodeInvalidRequest)
		return
	}

	id, err := h.svc.SaveResult(r.Context(), domain.SharedResult{
		MBTI:       req.MBTI,
		Summary:    req.Summary,
		Breakdown:  req.Breakdown,
		TracksUsed: req.TracksUsed,
		User:       req.User,
		SpotifyID:  req.SpotifyID,
	})
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	w.Header().Set("Location", "/result/"+id)
	writeJSON(w, http.StatusOK, saveResultResponse{ResultID: id})
}

// GetResult handles GET /result/{resultID}
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetResult(r.Context(), chi.URLParam(r, "resultID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeErrorWithCode(w, http.StatusNotFound, "Result not found", errCodeNotFound)
			return
		}
		writeServiceError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// validationMessage lists the failing JSON fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid result"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "Invalid result: " + strings.Join(fields, ", ")
}
