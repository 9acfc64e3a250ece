// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/agiliza-api/internal/database"
	"github.com/yukikurage/agiliza-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Clock is a fake time source that moves forward by Step on every reading.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

func NewClock() *Clock {
	return &Clock{
		now:  time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		Step: time.Second,
	}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.Step)
	return c.now
}

// NullLogger returns a logger that discards output.
func NullLogger() *logrus.Logger {
	log, _ := logtest.NewNullLogger()
	return log
}

// NewDB opens a migrated in-memory SQLite database whose timestamps come from clock.
func NewDB(t *testing.T, clock *Clock) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        clock.Now,
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, NullLogger()))
	return db
}

// Fixtures creates records directly through gorm.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) Department(name string) *models.Department {
	f.t.Helper()
	dept := &models.Department{Name: name, Description: name + " department"}
	require.NoError(f.t, f.db.Create(dept).Error)
	return dept
}

func (f *Fixtures) User(username string, role models.Role, deptID uint64) *models.User {
	f.t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Name:         username,
		AvatarColor:  "#3B82F6",
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

// Deactivate flips the active flag off for an existing user.
func (f *Fixtures) Deactivate(user *models.User) {
	f.t.Helper()
	require.NoError(f.t, f.db.Model(user).Update("is_active", false).Error)
	user.IsActive = false
}

// TaskOption customises a fixture task before insertion.
type TaskOption func(*models.Task)

func WithStatus(status models.TaskStatus) TaskOption {
	return func(t *models.Task) { t.Status = status }
}

func WithPriority(priority models.TaskPriority) TaskOption {
	return func(t *models.Task) { t.Priority = priority }
}

func WithType(taskType models.TaskType) TaskOption {
	return func(t *models.Task) { t.Type = taskType }
}

func WithAssignee(userID uint64) TaskOption {
	return func(t *models.Task) { t.AssigneeID = &userID }
}

func (f *Fixtures) Task(key string, creator *models.User, opts ...TaskOption) *models.Task {
	f.t.Helper()
	task := &models.Task{
		Title:        "Task " + key,
		Status:       models.TaskStatusTodo,
		Priority:     models.TaskPriorityMedium,
		Type:         models.TaskTypeTask,
		Key:          key,
		CreatorID:    creator.ID,
		DepartmentID: creator.DepartmentID,
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(f.t, f.db.Create(task).Error)
	return task
}
