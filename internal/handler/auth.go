package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/service"
)

// AuthHandler exposes account registration, login, the GitHub OAuth flow,
// and the current-user endpoint.
type AuthHandler struct {
	svc    *service.AuthService
	github *auth.GitHubProvider // nil when OAuth is not configured
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil; the server only
// registers the OAuth routes when it is set.
func NewAuthHandler(svc *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, github: github, logger: logger}
}

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister serves POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, r, apperror.Validation("Invalid JSON body"))
		return
	}

	result, err := h.svc.Register(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleLogin serves POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, r, apperror.Validation("Invalid JSON body"))
		return
	}

	result, err := h.svc.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleMe serves GET /api/auth/me.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, r, apperror.Unauthorized("Missing authentication token"))
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin serves GET /auth/github/login: store a CSRF state cookie
// and redirect the browser to GitHub.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback serves GET /auth/github/callback: verify the state,
// exchange the code for a profile, upsert the account, and return the token.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" ||
		r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: OAuth state mismatch")
		writeError(w, h.logger, r, apperror.Validation("Invalid OAuth state"))
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam))
		writeError(w, h.logger, r, apperror.Unauthorized("GitHub authorization was denied"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, h.logger, r, apperror.Validation("Missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, r, apperror.Internal(err))
		return
	}

	result, err := h.svc.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
