package postgres

import (
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal/goal"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) List() ([]*goal.Goal, error) {
	var goals []*goal.Goal
	err := r.db.Order("department ASC").Find(&goals).Error
	return goals, err
}

func (r *GoalRepository) Upsert(g *goal.Goal) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "department"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":     g.Amount,
			"updated_at": g.UpdatedAt,
		}),
	}).Create(g).Error
}
