package employee

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/core/events"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
	"github.com/google/uuid"
)

const EventBulkUpserted = "employees.bulk_upserted"

// Service merges bulk employee/department/email triples into the canonical
// store. The email namespace has a single logical writer: every bulk upsert
// holds the namespace mutex around one repository transaction, so the
// exists-check and the write can never interleave with another batch.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger

	mu sync.Mutex
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) ListEmployees() ([]*Record, error) {
	records, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return records, nil
}

// BulkUpsert validates and merges a batch of triples. Malformed triples are
// dropped and reported; valid ones are merged by normalized email. An
// existing user keeps every field except the department link (merge, not
// replace). Re-submitting the same batch leaves the store unchanged.
func (s *Service) BulkUpsert(dto BulkUpsertDTO) (*BulkUpsertResult, error) {
	triples := dto.Triples()
	if len(triples) == 0 {
		return nil, internal.NewValidationError("no assignments submitted", internal.ErrCodeInvalidTriple)
	}

	result := &BulkUpsertResult{
		Created: make([]*Record, 0),
		Updated: make([]*Record, 0),
	}

	// Last occurrence of an email wins inside a batch; earlier ones are
	// folded away rather than rejected, keeping resubmission idempotent.
	valid := make([]TripleDTO, 0, len(triples))
	byEmail := make(map[string]int)

	for _, t := range triples {
		t.Employee = strings.TrimSpace(t.Employee)
		t.Department = strings.TrimSpace(t.Department)
		t.Email = identity.NormalizeEmail(t.Email)

		if reason := validateTriple(t); reason != "" {
			result.Invalid = append(result.Invalid, InvalidTriple{Triple: t, Reason: reason})
			continue
		}

		if idx, seen := byEmail[t.Email]; seen {
			valid[idx] = t
			continue
		}
		byEmail[t.Email] = len(valid)
		valid = append(valid, t)
	}

	if len(valid) == 0 {
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Transaction(func(tx Repository) error {
		for _, t := range valid {
			dept, err := tx.UpsertDepartment(t.Department)
			if err != nil {
				return err
			}

			existing, err := tx.GetByEmail(t.Email)
			if err != nil {
				return err
			}

			if existing == nil {
				now := time.Now()
				user := &User{
					ID:        uuid.NewString(),
					Name:      t.Employee,
					Email:     t.Email,
					Role:      string(rbac.RoleEmployee),
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := tx.CreateUser(user); err != nil {
					return err
				}
				if err := tx.UpsertLink(user.ID, dept.ID); err != nil {
					return err
				}
				result.Created = append(result.Created, &Record{
					ID:         user.ID,
					Name:       user.Name,
					Email:      user.Email,
					Role:       user.Role,
					Department: dept.Name,
				})
				continue
			}

			if err := tx.UpsertLink(existing.ID, dept.ID); err != nil {
				return err
			}
			result.Updated = append(result.Updated, &Record{
				ID:         existing.ID,
				Name:       existing.Name,
				Email:      existing.Email,
				Role:       existing.Role,
				Department: dept.Name,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("bulk employee upsert failed", "error", err, "batch_size", len(valid))
		return nil, internal.NewInternalError("bulk employee upsert failed", err)
	}

	s.logger.Info("bulk employee upsert completed",
		"created", len(result.Created),
		"updated", len(result.Updated),
		"invalid", len(result.Invalid))

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(), events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventBulkUpserted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"created": len(result.Created),
				"updated": len(result.Updated),
			},
		})
	}

	return result, nil
}

func validateTriple(t TripleDTO) string {
	switch {
	case t.Employee == "":
		return "employee name is required"
	case t.Department == "":
		return "department is required"
	case t.Email == "":
		return "email is required"
	}
	return ""
}
