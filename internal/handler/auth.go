package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/service"
)

// stateCookie carries the OAuth CSRF state between the login redirect and
// the provider callback.
const stateCookie = "oauth_state"

// AuthHandler serves the GitHub OAuth routes. Password sign-up/sign-in go
// through GraphQL (newUser / validate); these two routes are the browser
// flow for GitHub accounts, ending in the same bearer token.
type AuthHandler struct {
	provider   *auth.GitHubProvider
	identities *service.IdentityService
	logger     *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(provider *auth.GitHubProvider, identities *service.IdentityService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider:   provider,
		identities: identities,
		logger:     logger,
	}
}

// HandleLogin starts the flow: set the state cookie, redirect to GitHub.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the flow: verify state, exchange the code for
// the GitHub profile, upsert the identity, return a bearer token.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "OAuth state mismatch",
		})
		return
	}

	// Expire the state cookie — it's single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "missing OAuth code",
		})
		return
	}

	ghUser, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("OAuth exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "oauth_exchange_failed",
			Message: "could not complete GitHub sign-in",
		})
		return
	}

	token, err := h.identities.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
