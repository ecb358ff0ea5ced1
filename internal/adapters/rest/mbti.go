package rest

import (
	"net/http"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

// mbtiRequest defines what the client sends us
type mbtiRequest struct {
	AudioFeatures []domain.FeatureRecord `json:"audio_features"`
}

// InferMBTI handles POST /mbti
func (h *Handler) InferMBTI(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req mbtiRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "Invalid request body", errCodeInvalidRequest)
		return
	}

	// An empty or missing list is the only rejected shape.
	result, err := h.svc.Infer(r.Context(), req.AudioFeatures)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
