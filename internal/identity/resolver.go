package identity

import (
	"log/slog"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
)

// Resolver maps a Principal to a durable user id. Strategies run in order and
// the first success wins: normalized email, durable id, legacy key index.
type Resolver struct {
	dir    Directory
	logger *slog.Logger
}

func NewResolver(dir Directory, logger *slog.Logger) *Resolver {
	return &Resolver{dir: dir, logger: logger}
}

// Resolve returns the durable user id for the principal, or ErrUserNotFound.
// Explicit role-management calls surface that as a 404; the authentication
// path uses ResolveOrProvision instead.
func (r *Resolver) Resolve(p Principal) (string, error) {
	if email := NormalizeEmail(p.Email); email != "" {
		id, err := r.dir.FindIDByEmail(email)
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil {
			return "", internal.NewInternalError("identity lookup failed", err)
		}
	}

	if p.Subject != "" {
		exists, err := r.dir.IDExists(p.Subject)
		if err != nil {
			return "", internal.NewInternalError("identity lookup failed", err)
		}
		if exists {
			return p.Subject, nil
		}

		if key, ok := LegacyKeyFor(p.Subject); ok {
			id, err := r.dir.FindIDByLegacyKey(key)
			if err != nil {
				return "", internal.NewInternalError("identity lookup failed", err)
			}
			if id != "" {
				r.logger.Warn("principal resolved via legacy key shim",
					"subject", p.Subject)
				return id, nil
			}
		}
	}

	return "", internal.ErrUserNotFound
}

// ResolveOrProvision resolves the principal, creating a fresh employee-role
// user when no strategy matches. A caller with a session but no record is a
// brand-new identity, not an error.
func (r *Resolver) ResolveOrProvision(p Principal) (string, error) {
	id, err := r.Resolve(p)
	if err == nil {
		return id, nil
	}
	if appErr, ok := internal.IsAppError(err); !ok || appErr != internal.ErrUserNotFound {
		return "", err
	}

	email := NormalizeEmail(p.Email)
	if email == "" {
		return "", internal.ErrUserNotFound
	}

	name := p.DisplayName
	if name == "" {
		name = email
	}

	id, createErr := r.dir.ProvisionUser(NewUser{
		Name:  name,
		Email: email,
		Role:  string(rbac.RoleEmployee),
	})
	if createErr != nil {
		// Concurrent first login can race on the email unique constraint;
		// re-resolve before giving up.
		if reID, reErr := r.dir.FindIDByEmail(email); reErr == nil && reID != "" {
			return reID, nil
		}
		return "", internal.NewInternalError("failed to provision user", createErr)
	}

	r.logger.Info("auto-provisioned user for new principal", "email", email)
	return id, nil
}
