package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/transport"
	"github.com/VladimirTheNoob/Budget-tracker/pkg/logger"
)

const oauthStateCookie = "oauth_state"

type Handler struct {
	*transport.BaseHandler
	Service  *Service
	Sessions *SessionManager
	Google   *GoogleProvider
	Resolver Resolver
	Roles    RoleStore
}

func NewHandler(svc *Service, sessions *SessionManager, google *GoogleProvider, resolver Resolver, roles RoleStore) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Sessions:    sessions,
		Google:      google,
		Resolver:    resolver,
		Roles:       roles,
	}
}

// Login authenticates local credentials, binds the principal to the browser
// session and returns a token pair for programmatic clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Sessions.SavePrincipal(w, r, principal); err != nil {
		h.Logger.Error("failed to save session", "error", err)
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"email":         principal.Email,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Logger.Error("failed to clear session", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// GoogleLogin redirects to the Google consent screen with a random state
// value pinned in a short-lived cookie.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.Google.IsConfigured() {
		h.WriteError(w, http.StatusServiceUnavailable, "google login is not configured")
		return
	}

	state, err := NewOAuthState()
	if err != nil {
		h.Logger.Error("failed to generate oauth state", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.Google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.WriteError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.WriteError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	principal, err := h.Google.Exchange(r.Context(), code)
	if err != nil {
		h.Logger.Error("google exchange failed", "error", err)
		h.WriteError(w, http.StatusBadGateway, "google login failed")
		return
	}

	if _, err := h.Resolver.ResolveOrProvision(principal); err != nil {
		h.Logger.Error("failed to provision oauth user", "error", err, "email", principal.Email)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Sessions.SavePrincipal(w, r, principal); err != nil {
		h.Logger.Error("failed to save session", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Status reports whether the caller is authenticated and, when it is, the
// resolved identity and role. It never fails: an unauthenticated caller gets
// a 200 with authenticated=false.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Sessions.Principal(r)
	if !ok {
		if token := h.ExtractTokenFromHeader(r); token != "" {
			if claims, err := h.Service.ValidateAccessToken(token); err == nil {
				principal.Email = claims.Email
				principal.Subject = claims.Subject
				ok = true
			}
		}
	}
	if !ok {
		h.WriteJSON(w, http.StatusOK, StatusResponse{Authenticated: false})
		return
	}

	userID, err := h.Resolver.ResolveOrProvision(principal)
	if err != nil {
		h.Logger.Error("failed to resolve principal", "error", err, "email", principal.Email)
		h.WriteJSON(w, http.StatusOK, StatusResponse{Authenticated: false})
		return
	}

	role, err := h.Roles.GetRole(userID)
	if err != nil {
		h.HandleServiceError(w, internal.NewInternalError("failed to load role", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, StatusResponse{
		Authenticated: true,
		User:          principal.DisplayName,
		Email:         principal.Email,
		Role:          string(role),
	})
}
