package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal/employee"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the protected administrator and sample users for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"employee_departments", "department_goals", "tasks", "departments", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		adminEmail := cfg.Security.ProtectedAdminEmail
		if adminEmail == "" {
			adminEmail = "admin@mail.com"
		}
		seedUser(db, adminEmail, "Administrator", string(hash), string(rbac.RoleAdmin), true)
		seedUser(db, "manager@mail.com", "Sample Manager", string(hash), string(rbac.RoleManager), false)
		seedUser(db, "employee@mail.com", "Sample Employee", string(hash), string(rbac.RoleEmployee), false)

		fmt.Println("Seeding complete")
	},
}

// seedUser inserts the user when absent. Existing users keep their current
// role except for the protected administrator, whose role and protection
// flag are always re-asserted.
func seedUser(db *gorm.DB, email, name, passwordHash, role string, protected bool) {
	var existing employee.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if protected && (!existing.Protected || existing.Role != role) {
			existing.Role = role
			existing.Protected = true
			existing.UpdatedAt = time.Now()
			if err := db.Save(&existing).Error; err != nil {
				log.Fatalf("failed to update protected user %s: %v", email, err)
			}
			fmt.Println("Re-asserted protected administrator:", email)
			return
		}
		fmt.Println("User already exists:", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up user %s: %v", email, err)
	}

	now := time.Now()
	user := &employee.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: &passwordHash,
		Role:         role,
		Protected:    protected,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}
