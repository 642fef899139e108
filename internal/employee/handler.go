package employee

import (
	"encoding/json"
	"net/http"

	"github.com/VladimirTheNoob/Budget-tracker/internal/transport"
	"github.com/VladimirTheNoob/Budget-tracker/pkg/logger"
)

type ServiceAPI interface {
	ListEmployees() ([]*Record, error)
	BulkUpsert(dto BulkUpsertDTO) (*BulkUpsertResult, error)
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

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListEmployees()
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var dto BulkUpsertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BulkUpsert: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.BulkUpsert(dto)
	if err != nil {
		h.Logger.Error("BulkUpsert: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if len(result.Created) > 0 {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, result)
}
