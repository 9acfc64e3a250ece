package dto

import (
	"time"

	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/services"
)

// DepartmentSummaryDTO represents a department nested in other responses
type DepartmentSummaryDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// DepartmentDTO represents a department with its member and task totals
type DepartmentDTO struct {
	DepartmentSummaryDTO
	UserCount int64 `json:"user_count"`
	TaskCount int64 `json:"task_count"`
}

// ToDepartmentSummaryDTO converts a Department model to DepartmentSummaryDTO
func ToDepartmentSummaryDTO(dept models.Department) DepartmentSummaryDTO {
	return DepartmentSummaryDTO{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		CreatedAt:   dept.CreatedAt,
	}
}

// ToDepartmentDTO converts a department overview to DepartmentDTO
func ToDepartmentDTO(overview services.DepartmentOverview) DepartmentDTO {
	return DepartmentDTO{
		DepartmentSummaryDTO: ToDepartmentSummaryDTO(overview.Department),
		UserCount:            overview.Counts.Users,
		TaskCount:            overview.Counts.Tasks,
	}
}

// ToDepartmentDTOs converts a list of overviews
func ToDepartmentDTOs(overviews []services.DepartmentOverview) []DepartmentDTO {
	out := make([]DepartmentDTO, len(overviews))
	for i, o := range overviews {
		out[i] = ToDepartmentDTO(o)
	}
	return out
}
