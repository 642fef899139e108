package postgres

import (
	"errors"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal/employee"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository implements employee.Repository and identity.Directory
// using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByEmail(email string) (*employee.User, error) {
	var user employee.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *EmployeeRepository) GetByID(id string) (*employee.User, error) {
	var user employee.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *EmployeeRepository) List() ([]*employee.Record, error) {
	var records []*employee.Record
	err := r.db.Table("users").
		Select("users.id, users.name, users.email, users.role, COALESCE(departments.name, '') AS department").
		Joins("LEFT JOIN employee_departments ON employee_departments.user_id = users.id").
		Joins("LEFT JOIN departments ON departments.id = employee_departments.department_id").
		Order("users.name ASC").
		Scan(&records).Error
	return records, err
}

func (r *EmployeeRepository) CreateUser(u *employee.User) error {
	return r.db.Create(u).Error
}

func (r *EmployeeRepository) UpdateUser(u *employee.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

func (r *EmployeeRepository) UpsertDepartment(name string) (*employee.Department, error) {
	dept := &employee.Department{ID: uuid.NewString(), Name: name}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(dept).Error
	if err != nil {
		return nil, err
	}

	// Re-read to pick up the surviving row on conflict.
	var existing employee.Department
	if err := r.db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *EmployeeRepository) UpsertLink(userID, departmentID string) error {
	link := &employee.DepartmentLink{
		ID:           uuid.NewString(),
		UserID:       userID,
		DepartmentID: departmentID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"department_id": departmentID}),
	}).Create(link).Error
}

func (r *EmployeeRepository) Transaction(fn func(employee.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&EmployeeRepository{db: tx})
	})
}

// auth.LoginRepository

// GetCredentials returns the stored password hash and user id for a local
// login. Accounts without a password hash (OAuth-only) yield an empty hash.
func (r *EmployeeRepository) GetCredentials(email string) (string, string, error) {
	user, err := r.GetByEmail(email)
	if err != nil || user == nil {
		return "", "", err
	}
	if user.PasswordHash == nil {
		return "", user.ID, nil
	}
	return *user.PasswordHash, user.ID, nil
}

// identity.Directory

func (r *EmployeeRepository) FindIDByEmail(email string) (string, error) {
	user, err := r.GetByEmail(email)
	if err != nil || user == nil {
		return "", err
	}
	return user.ID, nil
}

func (r *EmployeeRepository) IDExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&employee.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) FindIDByLegacyKey(key string) (string, error) {
	var user employee.User
	err := r.db.Where("legacy_key = ?", key).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.ID, nil
}

func (r *EmployeeRepository) ProvisionUser(u identity.NewUser) (string, error) {
	now := time.Now()
	user := &employee.User{
		ID:        uuid.NewString(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.Create(user).Error; err != nil {
		return "", err
	}
	return user.ID, nil
}
