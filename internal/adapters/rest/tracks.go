package rest

import (
	"net/http"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/worker"
)

type topTracksResponse struct {
	Tracks []domain.TopTrack `json:"tracks"`
}

// TopTracks handles GET /top-tracks
func (h *Handler) TopTracks(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeErrorWithCode(w, http.StatusUnauthorized, "Missing Spotify access token", errCodeUnauthorized)
		return
	}

	tracks, err := h.svc.TopTracks(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err, "Error fetching top tracks: ")
		return
	}
	if tracks == nil {
		tracks = []domain.TopTrack{}
	}

	// Prefetch artist insights for the first few tracks in the background.
	if h.pool != nil {
		for i, t := range tracks {
			if i >= h.warmupTracks {
				break
			}
			h.pool.Submit(worker.Job{TrackID: t.TrackID, Token: token})
		}
	}

	writeJSON(w, http.StatusOK, topTracksResponse{Tracks: tracks})
}
