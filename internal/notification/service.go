package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/core/events"
)

type Service struct {
	sender Sender
	logger *slog.Logger
}

func NewService(sender Sender, logger *slog.Logger) *Service {
	return &Service{sender: sender, logger: logger}
}

func (s *Service) Send(ctx context.Context, msg Message) error {
	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		return internal.NewValidationFieldError("to", "recipient is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return internal.NewValidationFieldError("subject", "subject is required", internal.ErrCodeValidationFailed)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("notification delivery failed", "error", err, "to", msg.To)
		return internal.NewInternalError("failed to send notification", err)
	}

	s.logger.Info("notification sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// SubscribeBulkEvents wires the service to reconciliation completion events
// so administrators get a summary after each bulk merge.
func (s *Service) SubscribeBulkEvents(bus *events.EventBus, adminEmail string, taskEvent, employeeEvent string) {
	if adminEmail == "" {
		s.logger.Debug("no admin email configured; bulk summaries disabled")
		return
	}

	handler := func(ctx context.Context, event events.Event) error {
		return s.Send(ctx, Message{
			To:      adminEmail,
			Subject: fmt.Sprintf("Bulk operation completed: %s", event.EventType()),
			Body:    fmt.Sprintf("%v", event.Payload()),
		})
	}

	bus.Subscribe(taskEvent, handler)
	bus.Subscribe(employeeEvent, handler)
}

// LogSender writes notifications to the log instead of delivering them.
// Useful in development and as the default when no provider is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (l *LogSender) Send(_ context.Context, msg Message) error {
	l.Logger.Info("notification (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}
