package goal

import (
	"encoding/json"
	"net/http"

	"github.com/VladimirTheNoob/Budget-tracker/internal/transport"
	"github.com/VladimirTheNoob/Budget-tracker/pkg/logger"
)

type ServiceAPI interface {
	ListGoals() ([]*Goal, error)
	SetGoals(values map[string]int64) ([]*Goal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Service.ListGoals()
	if err != nil {
		h.Logger.Error("ListGoals: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, goals)
}

func (h *Handler) SetGoals(w http.ResponseWriter, r *http.Request) {
	var values map[string]int64
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		h.Logger.Error("SetGoals: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goals, err := h.Service.SetGoals(values)
	if err != nil {
		h.Logger.Error("SetGoals: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, goals)
}
