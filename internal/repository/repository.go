package repository

import (
	"context"

	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/models"
	"gorm.io/gorm"
)

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// FindByID finds a department by ID
	FindByID(id uint64) (*models.Department, error)

	// List returns every department ordered by ID
	List() ([]models.Department, error)

	// Counts returns user and task totals for the given departments
	Counts(ids []uint64) (map[uint64]DepartmentCounts, error)
}

// DepartmentCounts holds the number of users and tasks owned by a department
type DepartmentCounts struct {
	Users int64
	Tasks int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with its department
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListVisible lists active users the caller may see
	ListVisible(caller access.Caller) ([]models.User, error)

	// UpdateLastLogin records a successful authentication
	UpdateLastLogin(user *models.User) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks visible to the filter's caller, newest first
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves the task columns, refreshing updated_at
	Update(task *models.Task) error

	// Count counts tasks visible to the caller
	Count(caller access.Caller) (int64, error)

	// CountBy counts visible tasks grouped by column
	CountBy(caller access.Caller, column GroupColumn) (map[string]int64, error)

	// CountByAssignee counts visible assigned tasks per assignee ID
	CountByAssignee(caller access.Caller) (map[uint64]int64, error)

	// Recent lists the most recently updated visible tasks
	Recent(caller access.Caller, limit int) ([]models.Task, error)

	// NextKeyNumber reserves the next task number for a key prefix
	NextKeyNumber(prefix string) (uint64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Caller     access.Caller
	Status     *models.TaskStatus
	AssigneeID *uint64
}

// GroupColumn is a task column the dashboard histograms group by
type GroupColumn string

const (
	GroupByStatus   GroupColumn = "status"
	GroupByPriority GroupColumn = "priority"
	GroupByType     GroupColumn = "task_type"
)

// Store bundles the repositories over one database handle.
type Store struct {
	db          *gorm.DB
	Departments DepartmentRepository
	Users       UserRepository
	Tasks       TaskRepository
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Departments: NewDepartmentRepository(db),
		Users:       NewUserRepository(db),
		Tasks:       NewTaskRepository(db),
	}
}

// WithContext returns a Store whose queries run under ctx
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
