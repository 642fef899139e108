package task

import (
	"strings"
	"time"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a tracked unit of work. Name is unique ignoring case and
// surrounding whitespace; NameKey holds the normalized form backing that
// constraint.
type Task struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name" gorm:"not null"`
	NameKey    string     `json:"-" gorm:"column:name_key;uniqueIndex;not null"`
	Employee   string     `json:"employee"`
	Department string     `json:"department"`
	Date       *time.Time `json:"date,omitempty" gorm:"type:date"`
	Status     string     `json:"status" gorm:"default:pending"`
	Comments   string     `json:"comments"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Task) TableName() string { return "tasks" }

// NameKeyFor normalizes a task name for uniqueness comparison.
func NameKeyFor(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Repository is the durable task store. GetByID returns (nil, nil) when the
// task does not exist.
type Repository interface {
	List() ([]*Task, error)
	GetByID(id string) (*Task, error)
	Create(t *Task) error
	Update(t *Task) error
	Delete(id string) error

	// NameKeys returns the set of normalized names already present.
	NameKeys() (map[string]bool, error)
	BulkCreate(tasks []*Task) error

	Transaction(fn func(Repository) error) error
}
