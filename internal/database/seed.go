package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "123456"

// Seed fills an empty database with demo departments, users and tasks.
// It does nothing when any department already exists.
func Seed(db *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := db.Model(&models.Department{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count departments: %w", err)
	}
	if count > 0 {
		log.Debug("Database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		departments := []models.Department{
			{Name: "Tecnologia", Description: "IT and software development"},
			{Name: "Marketing", Description: "Marketing and sales"},
			{Name: "Recursos Humanos", Description: "Human resources"},
			{Name: "Financeiro", Description: "Finance"},
		}
		if err := tx.Omit(clause.Associations).Create(&departments).Error; err != nil {
			return fmt.Errorf("failed to seed departments: %w", err)
		}
		tech, mkt, hr := departments[0].ID, departments[1].ID, departments[2].ID

		newUser := func(username, name string, role models.Role, deptID uint64, color string) models.User {
			return models.User{
				Username:     username,
				Email:        username + "@empresa.com",
				PasswordHash: string(hash),
				Name:         name,
				AvatarColor:  color,
				Role:         role,
				DepartmentID: deptID,
				IsActive:     true,
			}
		}
		users := []models.User{
			newUser("admin", "Administrador", models.RoleAdmin, tech, "#EF4444"),
			newUser("joao.silva", "João Silva", models.RoleUser, tech, "#3B82F6"),
			newUser("maria.santos", "Maria Santos", models.RoleManager, mkt, "#10B981"),
			newUser("pedro.oliveira", "Pedro Oliveira", models.RoleUser, tech, "#F59E0B"),
			newUser("ana.costa", "Ana Costa", models.RoleUser, hr, "#8B5CF6"),
		}
		if err := tx.Omit(clause.Associations).Create(&users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		admin, joao, maria, pedro, ana := &users[0].ID, &users[1].ID, &users[2].ID, &users[3].ID, &users[4].ID

		tasks := []models.Task{
			{Title: "Set up the development environment", Status: models.TaskStatusDone, Priority: models.TaskPriorityHigh,
				Type: models.TaskTypeTask, Key: "TEC-1", AssigneeID: joao, CreatorID: *admin, DepartmentID: tech},
			{Title: "Build the Kanban board", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityHigh,
				Type: models.TaskTypeStory, Key: "TEC-2", AssigneeID: joao, CreatorID: *admin, DepartmentID: tech},
			{Title: "Fix slow task loading", Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium,
				Type: models.TaskTypeBug, Key: "TEC-3", AssigneeID: pedro, CreatorID: *joao, DepartmentID: tech},
			{Title: "Social media campaign", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityHigh,
				Type: models.TaskTypeStory, Key: "MAR-1", AssigneeID: maria, CreatorID: *maria, DepartmentID: mkt},
			{Title: "Monthly sales performance report", Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium,
				Type: models.TaskTypeTask, Key: "MAR-2", AssigneeID: maria, CreatorID: *maria, DepartmentID: mkt},
			{Title: "Onboarding process", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow,
				Type: models.TaskTypeStory, Key: "REC-1", AssigneeID: ana, CreatorID: *ana, DepartmentID: hr},
		}
		if err := tx.Omit(clause.Associations).Create(&tasks).Error; err != nil {
			return fmt.Errorf("failed to seed tasks: %w", err)
		}

		log.WithFields(logrus.Fields{
			"departments": len(departments),
			"users":       len(users),
			"tasks":       len(tasks),
		}).Info("Seeded demo data")
		return nil
	})
}
