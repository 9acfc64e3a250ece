package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/constants"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, login and caller resolution.
type AuthService struct {
	store  *repository.Store
	tokens *TokenService
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(store *repository.Store, tokens *TokenService) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Name         string
	DepartmentID uint64
	AvatarColor  string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Session is the result of a successful registration or login.
type Session struct {
	AccessToken string
	User        *models.User
}

// Register creates a regular user in an existing department.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	switch {
	case username == "":
		return nil, ErrUsernameRequired
	case email == "":
		return nil, ErrEmailRequired
	case name == "":
		return nil, ErrNameRequired
	case len(input.Password) < constants.MinPasswordLength:
		return nil, ErrPasswordTooShort
	}

	avatarColor := input.AvatarColor
	if avatarColor == "" {
		avatarColor = constants.DefaultAvatarColor
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	var user *models.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.FindByUsername(username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}

		if _, err := tx.Users.FindByEmail(email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if _, err := tx.Departments.FindByID(input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownDepartment
			}
			return fmt.Errorf("failed to find department: %w", err)
		}

		created := &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hashedPassword),
			Name:         name,
			AvatarColor:  avatarColor,
			Role:         models.RoleUser,
			DepartmentID: input.DepartmentID,
			IsActive:     true,
		}
		if err := tx.Users.Create(created); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		reloaded, err := tx.Users.FindByID(created.ID)
		if err != nil {
			return fmt.Errorf("failed to reload user: %w", err)
		}
		user = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// Login verifies credentials, records the login time and issues a token.
// Inactive accounts and unknown roles are rejected exactly like wrong passwords.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		found, err := tx.Users.FindByUsername(strings.TrimSpace(input.Username))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(input.Password)); err != nil {
			return ErrInvalidCredentials
		}
		if !found.IsActive || !found.Role.Valid() {
			return ErrInvalidCredentials
		}

		now := s.now()
		found.LastLogin = &now
		if err := tx.Users.UpdateLastLogin(found); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}

		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// ResolveCaller loads the identity a request runs as.
// Missing, deactivated and unknown-role accounts all fail with ErrCallerInactive.
func (s *AuthService) ResolveCaller(ctx context.Context, userID uint64) (access.Caller, error) {
	user, err := s.store.WithContext(ctx).Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Caller{}, ErrCallerInactive
		}
		return access.Caller{}, fmt.Errorf("failed to find user: %w", err)
	}
	caller := access.FromUser(user)
	if !caller.Valid() {
		return access.Caller{}, ErrCallerInactive
	}
	return caller, nil
}

// GetUser retrieves an active user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ParseToken returns the user ID a bearer token was issued for.
func (s *AuthService) ParseToken(token string) (uint64, error) {
	return s.tokens.Parse(token)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, User: user}, nil
}
