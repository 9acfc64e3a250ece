package models

import "time"

type Department struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Users []User `gorm:"foreignKey:DepartmentID" json:"-"`
	Tasks []Task `gorm:"foreignKey:DepartmentID" json:"-"`
}

// TaskKeyCounter holds the last task number handed out for a key prefix.
// Departments whose names share a prefix share one sequence, and numbers only
// grow, so task keys are never reused.
type TaskKeyCounter struct {
	Prefix     string `gorm:"type:varchar(16);primarykey"`
	LastNumber uint64 `gorm:"not null"`
}
