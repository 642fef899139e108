package postgres

import (
	"errors"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal/employee"
	"github.com/VladimirTheNoob/Budget-tracker/internal/role"
	"gorm.io/gorm"
)

// RoleRepository implements role.Repository over the users table. Role
// assignments are folded into the user record; there is no separate table
// and no history.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAssignment(userID string) (*role.Assignment, error) {
	var user employee.User
	err := r.db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role.Assignment{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Protected: user.Protected,
	}, nil
}

func (r *RoleRepository) SetRole(userID, newRole string) error {
	return r.db.Model(&employee.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"role":       newRole,
			"updated_at": time.Now(),
		}).Error
}

func (r *RoleRepository) List() ([]*role.Assignment, error) {
	var users []employee.User
	if err := r.db.Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	assignments := make([]*role.Assignment, len(users))
	for i, u := range users {
		assignments[i] = &role.Assignment{
			UserID:    u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Protected: u.Protected,
		}
	}
	return assignments, nil
}
