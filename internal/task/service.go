package task

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/core/events"
	"github.com/VladimirTheNoob/Budget-tracker/internal/core/validation"
	"github.com/google/uuid"
)

const EventBulkImported = "tasks.bulk_imported"

// Service owns task CRUD and the bulk-import half of the reconciliation
// engine. Writes into the task-name namespace are serialized: one mutex
// around one repository transaction per operation, so duplicate detection
// and insert never interleave with a concurrent writer.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger

	mu sync.Mutex
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) ListTasks() ([]*Task, error) {
	tasks, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, internal.NewInternalError("failed to list tasks", err)
	}
	return tasks, nil
}

func (s *Service) GetTask(id string) (*Task, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get task", "error", err, "task_id", id)
		return nil, internal.NewInternalError("failed to get task", err)
	}
	if t == nil {
		return nil, internal.ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) CreateTask(dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	now := time.Now()
	t := &Task{
		ID:         uuid.NewString(),
		Name:       name,
		NameKey:    NameKeyFor(name),
		Employee:   dto.Employee,
		Department: dto.Department,
		Date:       dto.Date,
		Status:     status,
		Comments:   dto.Comments,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Transaction(func(tx Repository) error {
		existing, err := tx.NameKeys()
		if err != nil {
			return err
		}
		if existing[t.NameKey] {
			return internal.NewDuplicateError("A task with this name already exists",
				internal.ErrCodeDuplicateTaskName, []string{t.NameKey})
		}
		return tx.Create(t)
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create task", "error", err, "name", name)
		return nil, internal.NewInternalError("failed to create task", err)
	}

	s.logger.Info("task created", "task_id", t.ID, "name", t.Name)
	return t, nil
}

func (s *Service) UpdateTask(id string, dto UpdateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Task
	err := s.repo.Transaction(func(tx Repository) error {
		t, err := tx.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return internal.ErrTaskNotFound
		}

		if dto.Name != nil {
			name := strings.TrimSpace(*dto.Name)
			key := NameKeyFor(name)
			if key != t.NameKey {
				existing, err := tx.NameKeys()
				if err != nil {
					return err
				}
				if existing[key] {
					return internal.NewDuplicateError("A task with this name already exists",
						internal.ErrCodeDuplicateTaskName, []string{key})
				}
			}
			t.Name = name
			t.NameKey = key
		}
		if dto.Employee != nil {
			t.Employee = *dto.Employee
		}
		if dto.Department != nil {
			t.Department = *dto.Department
		}
		if dto.Date != nil {
			t.Date = dto.Date
		}
		if dto.Status != nil {
			t.Status = *dto.Status
		}
		if dto.Comments != nil {
			t.Comments = *dto.Comments
		}
		t.UpdatedAt = time.Now()

		if err := tx.Update(t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, internal.NewInternalError("failed to update task", err)
	}

	s.logger.Info("task updated", "task_id", id)
	return updated, nil
}

func (s *Service) DeleteTask(id string) error {
	t, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to load task for delete", "error", err, "task_id", id)
		return internal.NewInternalError("failed to delete task", err)
	}
	if t == nil {
		return internal.ErrTaskNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return internal.NewInternalError("failed to delete task", err)
	}
	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// BulkImport merges a batch of raw task names into the store.
//
// Format violations and intra-batch duplicates fail the whole batch before
// any write; names that already exist in the store are skipped and reported
// while the remainder is inserted.
func (s *Service) BulkImport(dto BulkImportDTO) (*BulkImportResult, error) {
	raw := dto.AllNames()
	if len(raw) == 0 {
		return nil, internal.NewValidationError("no task names submitted", internal.ErrCodeInvalidTaskName)
	}

	names := make([]string, 0, len(raw))
	var invalid []string
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || !validation.ValidTaskName(name) {
			invalid = append(invalid, name)
			continue
		}
		names = append(names, name)
	}
	if len(invalid) > 0 {
		return nil, internal.NewValidationError("batch contains invalid task names", internal.ErrCodeInvalidTaskName).
			WithDetails(internal.DuplicateDetails{Duplicates: invalid})
	}

	seen := make(map[string]bool, len(names))
	var batchDups []string
	for _, name := range names {
		key := NameKeyFor(name)
		if seen[key] {
			batchDups = append(batchDups, key)
			continue
		}
		seen[key] = true
	}
	if len(batchDups) > 0 {
		// Do not silently dedup; the caller must resubmit a corrected set.
		return nil, internal.NewDuplicateError("batch contains duplicate task names",
			internal.ErrCodeDuplicateTaskName, batchDups)
	}

	result := &BulkImportResult{}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Transaction(func(tx Repository) error {
		existing, err := tx.NameKeys()
		if err != nil {
			return err
		}

		now := time.Now()
		toInsert := make([]*Task, 0, len(names))
		for _, name := range names {
			key := NameKeyFor(name)
			if existing[key] {
				result.Duplicates++
				result.DuplicateNames = append(result.DuplicateNames, key)
				continue
			}
			toInsert = append(toInsert, &Task{
				ID:        uuid.NewString(),
				Name:      name,
				NameKey:   key,
				Status:    StatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		if len(toInsert) > 0 {
			if err := tx.BulkCreate(toInsert); err != nil {
				return err
			}
		}
		result.AddedCount = len(toInsert)
		return nil
	})
	if err != nil {
		s.logger.Error("bulk task import failed", "error", err, "batch_size", len(names))
		return nil, internal.NewInternalError("bulk task import failed", err)
	}

	s.logger.Info("bulk task import completed",
		"added", result.AddedCount,
		"duplicates", result.Duplicates)

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(), events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventBulkImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"added":      result.AddedCount,
				"duplicates": result.Duplicates,
			},
		})
	}

	return result, nil
}
