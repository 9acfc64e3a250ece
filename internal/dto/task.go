package dto

import (
	"time"

	"github.com/yukikurage/agiliza-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       models.TaskStatus     `json:"status"`
	Priority     models.TaskPriority   `json:"priority"`
	Type         models.TaskType       `json:"task_type"`
	Key          string                `json:"key"`
	AssigneeID   *uint64               `json:"assignee_id"`
	CreatorID    uint64                `json:"creator_id"`
	DepartmentID uint64                `json:"department_id"`
	Assignee     *UserDTO              `json:"assignee"`
	Creator      *UserDTO              `json:"creator"`
	Department   *DepartmentSummaryDTO `json:"department"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		Type:         task.Type,
		Key:          task.Key,
		AssigneeID:   task.AssigneeID,
		CreatorID:    task.CreatorID,
		DepartmentID: task.DepartmentID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	// Include department if preloaded
	if task.Department.ID != 0 {
		dept := ToDepartmentSummaryDTO(task.Department)
		dto.Department = &dept
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
