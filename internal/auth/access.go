package auth

import (
	"net/http"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
)

// Authenticate resolves the caller's identity before any protected handler
// runs. It accepts either a session cookie or a bearer token, maps the
// principal onto a durable user id (provisioning an employee account for
// first-time logins) and attaches the resolved user to the request context.
// Requests without a usable identity are rejected with 401.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := h.Sessions.Principal(r)
		if !ok {
			token := h.ExtractTokenFromHeader(r)
			if token == "" {
				h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeNotAuthenticated))
				return
			}
			claims, err := h.Service.ValidateAccessToken(token)
			if err != nil {
				h.HandleServiceError(w, err)
				return
			}
			principal = identity.Principal{Email: claims.Email, Subject: claims.Subject}
		}

		// Unknown identities on the authentication path become fresh
		// employee accounts, never errors.
		userID, err := h.Resolver.ResolveOrProvision(principal)
		if err != nil {
			h.Logger.Error("identity resolution failed", "error", err, "email", principal.Email)
			h.HandleServiceError(w, internal.NewInternalError("failed to resolve identity", err))
			return
		}

		role, err := h.Roles.GetRole(userID)
		if err != nil {
			h.Logger.Error("role lookup failed", "error", err, "user_id", userID)
			h.HandleServiceError(w, internal.NewInternalError("failed to load role", err))
			return
		}

		user := &internal.AuthUser{
			ID:    userID,
			Email: principal.Email,
			Name:  principal.DisplayName,
			Role:  string(role),
		}
		next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), user)))
	})
}

// Require gates a route on a single resource/action pair. It expects
// Authenticate to have run earlier in the chain.
func (h *Handler) Require(resource rbac.Resource, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeNotAuthenticated))
				return
			}

			if !rbac.Evaluate(rbac.Role(user.Role), resource, action) {
				h.HandleServiceError(w, internal.NewForbiddenError("insufficient permissions", internal.ErrCodeInsufficientPermissions).
					WithDetails(internal.PermissionDetails{
						Resource: string(resource),
						Action:   string(action),
						Role:     user.Role,
					}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
