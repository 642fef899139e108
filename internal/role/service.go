package role

import (
	"log/slog"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
)

// Service is the role store. It owns the protected-account invariant: a
// protected user's role can never change through SetRole, regardless of who
// calls.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetRole returns the user's role, defaulting to employee when unset or when
// the user is unknown.
func (s *Service) GetRole(userID string) (rbac.Role, error) {
	assignment, err := s.repo.GetAssignment(userID)
	if err != nil {
		s.logger.Error("failed to load role", "error", err, "user_id", userID)
		return "", internal.NewInternalError("failed to load role", err)
	}
	if assignment == nil || assignment.Role == "" {
		return rbac.RoleEmployee, nil
	}
	return rbac.Role(assignment.Role), nil
}

// SetRole overwrites the user's role, last write wins. The protected check
// runs unconditionally, even for admin callers, so the designated root
// administrator can never be locked out or taken over.
func (s *Service) SetRole(userID, newRole string) (*Assignment, error) {
	if !rbac.ValidRole(newRole) {
		return nil, internal.NewValidationError("unknown role", internal.ErrCodeInvalidRole)
	}

	assignment, err := s.repo.GetAssignment(userID)
	if err != nil {
		s.logger.Error("failed to load user for role change", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if assignment == nil {
		return nil, internal.ErrUserNotFound
	}
	if assignment.Protected {
		s.logger.Warn("rejected role change on protected account", "user_id", userID, "requested_role", newRole)
		return nil, internal.ErrProtectedAccount
	}

	if err := s.repo.SetRole(userID, newRole); err != nil {
		s.logger.Error("failed to set role", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to set role", err)
	}

	s.logger.Info("role updated", "user_id", userID, "role", newRole)
	assignment.Role = newRole
	return assignment, nil
}

func (s *Service) ListAssignments() ([]*Assignment, error) {
	assignments, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list role assignments", "error", err)
		return nil, internal.NewInternalError("failed to list role assignments", err)
	}
	return assignments, nil
}
