package dto

import (
	"time"

	"github.com/yukikurage/agiliza-api/internal/services"
)

// RecentActivityDTO is one entry of the dashboard activity feed
type RecentActivityDTO struct {
	TaskKey   string    `json:"task_key"`
	TaskTitle string    `json:"task_title"`
	Status    string    `json:"status"`
	Assignee  string    `json:"assignee"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardDTO represents the dashboard statistics response
type DashboardDTO struct {
	StatusStats      map[string]int64    `json:"status_stats"`
	TypeStats        map[string]int64    `json:"type_stats"`
	PriorityStats    map[string]int64    `json:"priority_stats"`
	WorkloadStats    map[string]int64    `json:"workload_stats"`
	RecentActivities []RecentActivityDTO `json:"recent_activities"`
	TotalTasks       int64               `json:"total_tasks"`
	Department       *DepartmentDTO      `json:"department"`
}

// ToDashboardDTO converts a dashboard snapshot to DashboardDTO
func ToDashboardDTO(snapshot services.DashboardSnapshot) DashboardDTO {
	dto := DashboardDTO{
		StatusStats:      make(map[string]int64, len(snapshot.StatusStats)),
		TypeStats:        make(map[string]int64, len(snapshot.TypeStats)),
		PriorityStats:    make(map[string]int64, len(snapshot.PriorityStats)),
		WorkloadStats:    snapshot.WorkloadStats,
		RecentActivities: make([]RecentActivityDTO, len(snapshot.RecentActivities)),
		TotalTasks:       snapshot.TotalTasks,
	}

	for k, v := range snapshot.StatusStats {
		dto.StatusStats[string(k)] = v
	}
	for k, v := range snapshot.TypeStats {
		dto.TypeStats[string(k)] = v
	}
	for k, v := range snapshot.PriorityStats {
		dto.PriorityStats[string(k)] = v
	}
	if dto.WorkloadStats == nil {
		dto.WorkloadStats = map[string]int64{}
	}

	for i, a := range snapshot.RecentActivities {
		dto.RecentActivities[i] = RecentActivityDTO{
			TaskKey:   a.TaskKey,
			TaskTitle: a.TaskTitle,
			Status:    string(a.Status),
			Assignee:  a.Assignee,
			UpdatedAt: a.UpdatedAt,
		}
	}

	if snapshot.Department != nil {
		dept := ToDepartmentDTO(*snapshot.Department)
		dto.Department = &dept
	}

	return dto
}
