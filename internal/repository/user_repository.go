package repository

import (
	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/database"
	"github.com/yukikurage/agiliza-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Omit(clause.Associations).Create(user).Error
}

// FindByID finds a user by ID with its department
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Department").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Department").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListVisible lists active users the caller may see, ordered by ID
func (r *GormUserRepository) ListVisible(caller access.Caller) ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Department").
		Scopes(database.DepartmentScope(caller, "users"), database.ActiveUsers).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateLastLogin persists user.LastLogin
func (r *GormUserRepository) UpdateLastLogin(user *models.User) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		UpdateColumn("last_login", user.LastLogin).Error
}
