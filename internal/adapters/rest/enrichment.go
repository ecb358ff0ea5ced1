package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/logging"
)

// Lyrics handles GET /lyrics/{trackID}
func (h *Handler) Lyrics(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeErrorWithCode(w, http.StatusUnauthorized, "Missing Spotify access token", errCodeUnauthorized)
		return
	}

	lyrics, err := h.svc.Lyrics(r.Context(), token, chi.URLParam(r, "trackID"))
	if err != nil {
		var statusErr *domain.UpstreamStatusError
		switch {
		case errors.As(err, &statusErr) && statusErr.Service == "spotify":
			// Mirror Spotify's status for the track lookup.
			writeErrorWithCode(w, statusErr.Status, "Spotify track fetch failed", errCodeUpstream)
		case errors.Is(err, domain.ErrLyricsNotFound):
			writeErrorWithCode(w, http.StatusNotFound, "Lyrics not found", errCodeNotFound)
		case errors.Is(err, domain.ErrBadResponse):
			logging.Ctx(r.Context()).Warn().Err(err).Msg("rest: lyrics api returned an unreadable body")
			writeErrorWithCode(w, http.StatusInternalServerError, "Invalid lyrics API response", errCodeBadUpstreamBody)
		default:
			writeServiceError(w, r, err, "")
		}
		return
	}

	writeJSON(w, http.StatusOK, lyrics)
}

// ArtistInsight handles GET /artist-insight/{trackID}
func (h *Handler) ArtistInsight(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeErrorWithCode(w, http.StatusUnauthorized, "Missing Spotify access token", errCodeUnauthorized)
		return
	}

	insight, err := h.svc.ArtistInsight(r.Context(), token, chi.URLParam(r, "trackID"))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("rest: artist insight failed")
		writeErrorWithCode(w, http.StatusInternalServerError, "Artist insight error: "+err.Error(), errCodeInternal)
		return
	}

	writeJSON(w, http.StatusOK, insight)
}
