package role

import (
	"encoding/json"
	"net/http"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
	"github.com/VladimirTheNoob/Budget-tracker/internal/transport"
	"github.com/VladimirTheNoob/Budget-tracker/pkg/logger"
)

type ServiceAPI interface {
	GetRole(userID string) (rbac.Role, error)
	SetRole(userID, newRole string) (*Assignment, error)
	ListAssignments() ([]*Assignment, error)
}

// IdentityResolver locates the target of a role change. Unlike the
// authentication path, unknown targets are a 404 here, never auto-provisioned.
type IdentityResolver interface {
	Resolve(p identity.Principal) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Resolver IdentityResolver
}

func NewHandler(service ServiceAPI, resolver IdentityResolver) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
		Resolver:    resolver,
	}
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Service.ListAssignments()
	if err != nil {
		h.Logger.Error("ListAssignments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, assignments)
}

// UpdateRoleDTO targets a user either by durable id or by email; legacy
// composite ids are still accepted through the resolver shim.
type UpdateRoleDTO struct {
	EmployeeID string `json:"employeeId,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if dto.EmployeeID == "" && dto.Email == "" {
		h.HandleServiceError(w, internal.NewValidationError("employeeId or email is required", internal.ErrCodeValidationFailed))
		return
	}

	userID, err := h.Resolver.Resolve(identity.Principal{
		Email:   dto.Email,
		Subject: dto.EmployeeID,
	})
	if err != nil {
		h.Logger.Warn("UpdateRole: target not found", "employee_id", dto.EmployeeID, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	assignment, err := h.Service.SetRole(userID, dto.Role)
	if err != nil {
		h.Logger.Error("UpdateRole: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, assignment)
}
