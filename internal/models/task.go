package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every status in board order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

func (p TaskPriority) Valid() bool {
	for _, v := range TaskPriorities {
		if p == v {
			return true
		}
	}
	return false
}

type TaskType string

const (
	TaskTypeTask  TaskType = "task"
	TaskTypeBug   TaskType = "bug"
	TaskTypeStory TaskType = "story"
)

var TaskTypes = []TaskType{TaskTypeTask, TaskTypeBug, TaskTypeStory}

func (t TaskType) Valid() bool {
	for _, v := range TaskTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(500);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Type         TaskType     `gorm:"column:task_type;type:varchar(20);not null;default:'task'" json:"task_type"`
	Key          string       `gorm:"type:varchar(20);uniqueIndex;not null" json:"key"`
	AssigneeID   *uint64      `gorm:"index" json:"assignee_id"`
	CreatorID    uint64       `gorm:"not null;index" json:"creator_id"`
	DepartmentID uint64       `gorm:"not null" json:"department_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Assignee   *User      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator    User       `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
