package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/VladimirTheNoob/Budget-tracker/internal/transport"
	"github.com/VladimirTheNoob/Budget-tracker/pkg/logger"
)

type ServiceAPI interface {
	Send(ctx context.Context, msg Message) error
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

func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.Logger.Error("SendNotification: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Send(r.Context(), msg); err != nil {
		h.Logger.Error("SendNotification: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
