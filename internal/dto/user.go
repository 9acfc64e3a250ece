package dto

import (
	"strings"
	"time"
	"unicode"

	"github.com/yukikurage/agiliza-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never exposed.
type UserDTO struct {
	ID           uint64                `json:"id"`
	Username     string                `json:"username"`
	Email        string                `json:"email"`
	Name         string                `json:"name"`
	AvatarColor  string                `json:"avatar_color"`
	Role         models.Role           `json:"role"`
	DepartmentID uint64                `json:"department_id"`
	Department   *DepartmentSummaryDTO `json:"department"`
	IsActive     bool                  `json:"is_active"`
	CreatedAt    time.Time             `json:"created_at"`
	LastLogin    *time.Time            `json:"last_login"`
	Initials     string                `json:"initials"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Name:         user.Name,
		AvatarColor:  user.AvatarColor,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		LastLogin:    user.LastLogin,
		Initials:     Initials(user.Name),
	}

	// Include department if preloaded
	if user.Department.ID != 0 {
		dept := ToDepartmentSummaryDTO(user.Department)
		dto.Department = &dept
	}

	return dto
}

// ToUserDTOs converts a list of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// Initials returns the upper-cased first letters of the first two words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		first := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(first))
	}
	return b.String()
}
