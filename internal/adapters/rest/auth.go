package rest

import (
	"net/http"

	"github.com/ewilliams-labs/typetune/internal/logging"
)

type loginResponse struct {
	URL string `json:"url"`
}

type callbackResponse struct {
	AccessToken string `json:"access_token"`
}

// Login handles GET /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, loginResponse{URL: h.svc.LoginURL()})
}

// Callback handles GET /callback?code=
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	token, err := h.svc.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("rest: spotify token exchange failed")
		writeErrorWithCode(w, http.StatusBadRequest, "Could not fetch token", errCodeTokenExchange)
		return
	}
	writeJSON(w, http.StatusOK, callbackResponse{AccessToken: token})
}
