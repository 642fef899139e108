package goal

import (
	"log/slog"
	"strings"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListGoals() ([]*Goal, error) {
	goals, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list goals", "error", err)
		return nil, internal.NewInternalError("failed to list goals", err)
	}
	return goals, nil
}

// SetGoals overwrites the target value for each named department, last write
// wins.
func (s *Service) SetGoals(values map[string]int64) ([]*Goal, error) {
	if len(values) == 0 {
		return nil, internal.NewValidationError("no department values submitted", internal.ErrCodeValidationFailed)
	}

	updated := make([]*Goal, 0, len(values))
	for department, amount := range values {
		department = strings.TrimSpace(department)
		if department == "" {
			return nil, internal.NewValidationFieldError("department", "department is required", internal.ErrCodeValidationFailed)
		}
		g := &Goal{Department: department, Amount: amount}
		if err := s.repo.Upsert(g); err != nil {
			s.logger.Error("failed to upsert goal", "error", err, "department", department)
			return nil, internal.NewInternalError("failed to save department values", err)
		}
		updated = append(updated, g)
	}

	s.logger.Info("department goals updated", "count", len(updated))
	return updated, nil
}
