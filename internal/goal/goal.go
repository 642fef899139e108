package goal

import "time"

// Goal is a per-department target value.
type Goal struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Department string    `json:"department" gorm:"uniqueIndex;not null"`
	Amount     int64     `json:"amount"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Goal) TableName() string { return "department_goals" }

type Repository interface {
	List() ([]*Goal, error)
	Upsert(g *Goal) error
}
