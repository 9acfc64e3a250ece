package models

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	AvatarColor  string     `gorm:"type:varchar(7);not null" json:"avatar_color"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	DepartmentID uint64     `gorm:"not null;index" json:"department_id"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`

	// Relations
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
