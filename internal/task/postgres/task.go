package postgres

import (
	"errors"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements the task.Repository interface using GORM.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List() ([]*task.Task, error) {
	var tasks []*task.Task
	err := r.db.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetByID(id string) (*task.Task, error) {
	var t task.Task
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(t *task.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) Update(t *task.Task) error {
	t.UpdatedAt = time.Now()
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&task.Task{}).Error
}

func (r *TaskRepository) NameKeys() (map[string]bool, error) {
	var keys []string
	if err := r.db.Model(&task.Task{}).Pluck("name_key", &keys).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set, nil
}

func (r *TaskRepository) BulkCreate(tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.Create(tasks).Error
}

func (r *TaskRepository) Transaction(fn func(task.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepository{db: tx})
	})
}
