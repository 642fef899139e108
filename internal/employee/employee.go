package employee

import (
	"time"
)

// User is the canonical identity record. Email is the natural key and is
// stored normalized lowercase.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash *string   `json:"-" gorm:"column:password_hash"`
	Role         string    `json:"role" gorm:"default:employee"`
	Protected    bool      `json:"protected" gorm:"column:is_protected;default:false"`
	LegacyKey    *string   `json:"-" gorm:"column:legacy_key;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

type Department struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Department) TableName() string { return "departments" }

// DepartmentLink records a user's current department. One active link per
// user; the latest write wins, no history is kept.
type DepartmentLink struct {
	ID           string `json:"id" gorm:"primaryKey"`
	UserID       string `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	DepartmentID string `json:"department_id" gorm:"column:department_id;not null"`
}

func (DepartmentLink) TableName() string { return "employee_departments" }

// Record is the list view: a user joined with their current department.
type Record struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// Repository is the durable store for users, departments and links. Lookups
// return (nil, nil) when the record is missing; absence is a normal result,
// not an error.
type Repository interface {
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	List() ([]*Record, error)
	CreateUser(u *User) error
	UpdateUser(u *User) error
	UpsertDepartment(name string) (*Department, error)
	UpsertLink(userID, departmentID string) error

	// Transaction runs fn against a repository view bound to a single
	// database transaction.
	Transaction(fn func(Repository) error) error
}
