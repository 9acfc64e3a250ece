package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/constants"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"gorm.io/gorm"
)

// DashboardService aggregates statistics over the tasks a caller can see.
type DashboardService struct {
	store *repository.Store
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// RecentActivity is one entry of the activity feed.
type RecentActivity struct {
	TaskKey   string
	TaskTitle string
	Status    models.TaskStatus
	Assignee  string
	UpdatedAt time.Time
}

// DashboardSnapshot is the aggregated view returned by GetDashboard.
//
// The status, type and priority histograms always hold every enum value.
// WorkloadStats only lists users with at least one assigned task.
type DashboardSnapshot struct {
	StatusStats      map[models.TaskStatus]int64
	TypeStats        map[models.TaskType]int64
	PriorityStats    map[models.TaskPriority]int64
	WorkloadStats    map[string]int64
	RecentActivities []RecentActivity
	TotalTasks       int64
	Department       *DepartmentOverview
}

// GetDashboard computes the caller's dashboard inside one read transaction.
func (s *DashboardService) GetDashboard(ctx context.Context, caller access.Caller) (*DashboardSnapshot, error) {
	if !caller.Valid() {
		return nil, ErrCallerInactive
	}

	snapshot := &DashboardSnapshot{
		StatusStats:   make(map[models.TaskStatus]int64, len(models.TaskStatuses)),
		TypeStats:     make(map[models.TaskType]int64, len(models.TaskTypes)),
		PriorityStats: make(map[models.TaskPriority]int64, len(models.TaskPriorities)),
		WorkloadStats: map[string]int64{},
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		byStatus, err := tx.Tasks.CountBy(caller, repository.GroupByStatus)
		if err != nil {
			return fmt.Errorf("failed to count tasks by status: %w", err)
		}
		for _, st := range models.TaskStatuses {
			snapshot.StatusStats[st] = byStatus[string(st)]
		}

		byType, err := tx.Tasks.CountBy(caller, repository.GroupByType)
		if err != nil {
			return fmt.Errorf("failed to count tasks by type: %w", err)
		}
		for _, t := range models.TaskTypes {
			snapshot.TypeStats[t] = byType[string(t)]
		}

		byPriority, err := tx.Tasks.CountBy(caller, repository.GroupByPriority)
		if err != nil {
			return fmt.Errorf("failed to count tasks by priority: %w", err)
		}
		for _, p := range models.TaskPriorities {
			snapshot.PriorityStats[p] = byPriority[string(p)]
		}

		if err := s.fillWorkload(tx, caller, snapshot); err != nil {
			return err
		}

		recent, err := tx.Tasks.Recent(caller, constants.RecentActivityLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent tasks: %w", err)
		}
		snapshot.RecentActivities = make([]RecentActivity, len(recent))
		for i, task := range recent {
			snapshot.RecentActivities[i] = toRecentActivity(task)
		}

		if snapshot.TotalTasks, err = tx.Tasks.Count(caller); err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}

		snapshot.Department, err = departmentOverview(tx, caller.DepartmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// fillWorkload counts assigned tasks for every visible user. Users sharing a
// display name are summed under that name.
func (s *DashboardService) fillWorkload(tx *repository.Store, caller access.Caller, snapshot *DashboardSnapshot) error {
	users, err := tx.Users.ListVisible(caller)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	assigned, err := tx.Tasks.CountByAssignee(caller)
	if err != nil {
		return fmt.Errorf("failed to count tasks by assignee: %w", err)
	}

	for _, u := range users {
		if n := assigned[u.ID]; n > 0 {
			snapshot.WorkloadStats[u.Name] += n
		}
	}
	return nil
}

func toRecentActivity(task models.Task) RecentActivity {
	assignee := constants.UnassignedPlaceholder
	if task.Assignee != nil {
		assignee = task.Assignee.Name
	}
	return RecentActivity{
		TaskKey:   task.Key,
		TaskTitle: task.Title,
		Status:    task.Status,
		Assignee:  assignee,
		UpdatedAt: task.UpdatedAt,
	}
}

func departmentOverview(tx *repository.Store, departmentID uint64) (*DepartmentOverview, error) {
	dept, err := tx.Departments.FindByID(departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}

	counts, err := tx.Departments.Counts([]uint64{dept.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count department members: %w", err)
	}
	return &DepartmentOverview{Department: *dept, Counts: counts[dept.ID]}, nil
}
