package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"github.com/yukikurage/agiliza-api/internal/testutil"
	"gorm.io/gorm"
)

// ServiceTestSuite runs the services against an in-memory database
type ServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *testutil.Clock
	db       *gorm.DB
	store    *repository.Store
	fixtures *testutil.Fixtures

	tech  *models.Department
	mkt   *models.Department
	admin *models.User
	joao  *models.User
	pedro *models.User
	maria *models.User

	tasks     *TaskService
	directory *DirectoryService
	dashboard *DashboardService
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = testutil.NewClock()
	s.db = testutil.NewDB(s.T(), s.clock)
	s.store = repository.NewStore(s.db)
	s.fixtures = testutil.NewFixtures(s.T(), s.db)

	s.tech = s.fixtures.Department("Tecnologia")
	s.mkt = s.fixtures.Department("Marketing")
	s.admin = s.fixtures.User("admin", models.RoleAdmin, s.tech.ID)
	s.joao = s.fixtures.User("joao", models.RoleUser, s.tech.ID)
	s.pedro = s.fixtures.User("pedro", models.RoleUser, s.tech.ID)
	s.maria = s.fixtures.User("maria", models.RoleManager, s.mkt.ID)

	s.tasks = NewTaskService(s.store, nil)
	s.directory = NewDirectoryService(s.store)
	s.dashboard = NewDashboardService(s.store)
}

func (s *ServiceTestSuite) caller(u *models.User) access.Caller {
	return access.FromUser(u)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestListTasks_NonAdminSeesOwnDepartmentOnly() {
	s.fixtures.Task("TEC-1", s.joao)
	s.fixtures.Task("MAR-1", s.maria)
	s.fixtures.Task("TEC-2", s.pedro)

	tasks, err := s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{})
	s.Require().NoError(err)
	s.Equal([]string{"TEC-2", "TEC-1"}, taskKeys(tasks))
	for _, task := range tasks {
		s.Equal(s.tech.ID, task.DepartmentID)
	}

	tasks, err = s.tasks.ListTasks(s.ctx, s.caller(s.maria), ListTasksInput{})
	s.Require().NoError(err)
	s.Equal([]string{"MAR-1"}, taskKeys(tasks))
}

func (s *ServiceTestSuite) TestListTasks_AdminSeesAllDepartments() {
	s.fixtures.Task("TEC-1", s.joao)
	s.fixtures.Task("MAR-1", s.maria)

	tasks, err := s.tasks.ListTasks(s.ctx, s.caller(s.admin), ListTasksInput{})
	s.Require().NoError(err)
	s.Equal([]string{"MAR-1", "TEC-1"}, taskKeys(tasks))
}

func (s *ServiceTestSuite) TestListTasks_Filters() {
	s.fixtures.Task("TEC-1", s.joao, testutil.WithStatus(models.TaskStatusDone), testutil.WithAssignee(s.joao.ID))
	s.fixtures.Task("TEC-2", s.joao, testutil.WithAssignee(s.pedro.ID))
	s.fixtures.Task("TEC-3", s.joao, testutil.WithAssignee(s.joao.ID))

	done := models.TaskStatusDone
	tasks, err := s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{Status: &done})
	s.Require().NoError(err)
	s.Equal([]string{"TEC-1"}, taskKeys(tasks))

	tasks, err = s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{AssigneeID: &s.joao.ID})
	s.Require().NoError(err)
	s.Equal([]string{"TEC-3", "TEC-1"}, taskKeys(tasks))

	todo := models.TaskStatusTodo
	tasks, err = s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{Status: &todo, AssigneeID: &s.joao.ID})
	s.Require().NoError(err)
	s.Equal([]string{"TEC-3"}, taskKeys(tasks))

	bogus := models.TaskStatus("blocked")
	_, err = s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{Status: &bogus})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestListTasks_EqualTimestampsOrderByIDDesc() {
	ts := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	sameTime := func(t *models.Task) {
		t.CreatedAt = ts
		t.UpdatedAt = ts
	}
	first := s.fixtures.Task("TEC-1", s.joao, sameTime)
	second := s.fixtures.Task("TEC-2", s.joao, sameTime)

	tasks, err := s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{})
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal(second.ID, tasks[0].ID)
	s.Equal(first.ID, tasks[1].ID)
}

func (s *ServiceTestSuite) TestListTasks_InactiveCallerRejected() {
	s.fixtures.Deactivate(s.joao)

	_, err := s.tasks.ListTasks(s.ctx, s.caller(s.joao), ListTasksInput{})
	s.ErrorIs(err, ErrAuthentication)
}

func (s *ServiceTestSuite) TestListUsers_Scoping() {
	s.fixtures.Deactivate(s.pedro)

	users, err := s.directory.ListUsers(s.ctx, s.caller(s.joao))
	s.Require().NoError(err)
	s.Equal([]string{"admin", "joao"}, usernames(users))

	users, err = s.directory.ListUsers(s.ctx, s.caller(s.admin))
	s.Require().NoError(err)
	s.Equal([]string{"admin", "joao", "maria"}, usernames(users))
}

func (s *ServiceTestSuite) TestListDepartments_Idempotent() {
	s.fixtures.Task("TEC-1", s.joao)

	first, err := s.directory.ListDepartments(s.ctx)
	s.Require().NoError(err)
	second, err := s.directory.ListDepartments(s.ctx)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Require().Len(first, 2)
	s.Equal("Tecnologia", first[0].Department.Name)
	s.Equal(repository.DepartmentCounts{Users: 3, Tasks: 1}, first[0].Counts)
	s.Equal(repository.DepartmentCounts{Users: 1, Tasks: 0}, first[1].Counts)
}

func (s *ServiceTestSuite) TestCreateTask_GeneratesSequentialKeys() {
	first, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "Configure CI"})
	s.Require().NoError(err)
	s.Equal("TEC-1", first.Key)

	second, err := s.tasks.CreateTask(s.ctx, s.caller(s.pedro), CreateTaskInput{Title: "Fix login bug"})
	s.Require().NoError(err)
	s.Equal("TEC-2", second.Key)

	other, err := s.tasks.CreateTask(s.ctx, s.caller(s.maria), CreateTaskInput{Title: "Campaign"})
	s.Require().NoError(err)
	s.Equal("MAR-1", other.Key)
}

func (s *ServiceTestSuite) TestCreateTask_KeysAreNotReusedAfterDeletion() {
	first, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "One"})
	s.Require().NoError(err)
	_, err = s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "Two"})
	s.Require().NoError(err)

	s.Require().NoError(s.db.Delete(&models.Task{}, first.ID).Error)

	third, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "Three"})
	s.Require().NoError(err)
	s.Equal("TEC-3", third.Key)
}

func (s *ServiceTestSuite) TestCreateTask_DefaultsAndOwnership() {
	task, err := s.tasks.CreateTask(s.ctx, s.caller(s.admin), CreateTaskInput{
		Title:      "  Write docs  ",
		AssigneeID: &s.pedro.ID,
	})
	s.Require().NoError(err)

	s.Equal("Write docs", task.Title)
	s.Equal(models.TaskStatusTodo, task.Status)
	s.Equal(models.TaskPriorityMedium, task.Priority)
	s.Equal(models.TaskTypeTask, task.Type)
	s.Equal(s.admin.ID, task.CreatorID)
	s.Equal(s.tech.ID, task.DepartmentID)
	s.Require().NotNil(task.Assignee)
	s.Equal(s.pedro.ID, task.Assignee.ID)
	s.Equal("Tecnologia", task.Department.Name)
}

func (s *ServiceTestSuite) TestCreateTask_Validation() {
	tests := []struct {
		name  string
		input CreateTaskInput
	}{
		{"missing title", CreateTaskInput{Title: "   "}},
		{"bad status", CreateTaskInput{Title: "x", Status: "blocked"}},
		{"bad priority", CreateTaskInput{Title: "x", Priority: "urgent"}},
		{"bad type", CreateTaskInput{Title: "x", Type: "epic"}},
		{"unknown assignee", CreateTaskInput{Title: "x", AssigneeID: uint64Ptr(999)}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), tt.input)
			s.ErrorIs(err, ErrValidation)
		})
	}
}

func (s *ServiceTestSuite) TestCreateTask_InactiveAssigneeRejected() {
	s.fixtures.Deactivate(s.pedro)

	_, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "x", AssigneeID: &s.pedro.ID})
	s.ErrorIs(err, ErrInvalidAssignee)

	// No number was consumed by the rejected request.
	task, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "y"})
	s.Require().NoError(err)
	s.Equal("TEC-1", task.Key)
}

func (s *ServiceTestSuite) TestCreateTask_ShortDepartmentName() {
	it := s.fixtures.Department("TI")
	ana := s.fixtures.User("ana", models.RoleUser, it.ID)

	task, err := s.tasks.CreateTask(s.ctx, s.caller(ana), CreateTaskInput{Title: "Inventory"})
	s.Require().NoError(err)
	s.Equal("TI-1", task.Key)
}

func (s *ServiceTestSuite) TestCreateTask_DepartmentsSharingPrefixShareSequence() {
	tecidos := s.fixtures.Department("Tecidos")
	ana := s.fixtures.User("ana", models.RoleUser, tecidos.ID)

	first, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "Configure CI"})
	s.Require().NoError(err)
	s.Equal("TEC-1", first.Key)

	for _, want := range []string{"TEC-2", "TEC-3"} {
		task, err := s.tasks.CreateTask(s.ctx, s.caller(ana), CreateTaskInput{Title: "Order cotton"})
		s.Require().NoError(err)
		s.Equal(want, task.Key)
		s.Equal(tecidos.ID, task.DepartmentID)
	}

	next, err := s.tasks.CreateTask(s.ctx, s.caller(s.joao), CreateTaskInput{Title: "Rotate keys"})
	s.Require().NoError(err)
	s.Equal("TEC-4", next.Key)
}

func (s *ServiceTestSuite) TestMoveTask_SameDepartment() {
	task := s.fixtures.Task("TEC-1", s.joao)

	moved, err := s.tasks.MoveTask(s.ctx, s.caller(s.pedro), task.ID, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, moved.Status)
	s.True(moved.UpdatedAt.After(task.UpdatedAt), "updated_at must move forward")
	s.True(moved.CreatedAt.Equal(task.CreatedAt))

	// Any status may follow any other.
	moved, err = s.tasks.MoveTask(s.ctx, s.caller(s.pedro), task.ID, models.TaskStatusTodo)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusTodo, moved.Status)
}

func (s *ServiceTestSuite) TestMoveTask_ForeignDepartmentDenied() {
	task := s.fixtures.Task("MAR-1", s.maria)

	_, err := s.tasks.MoveTask(s.ctx, s.caller(s.joao), task.ID, models.TaskStatusDone)
	s.ErrorIs(err, ErrPermission)
	s.ErrorIs(err, ErrTaskPermissionDenied)

	var reloaded models.Task
	s.Require().NoError(s.db.First(&reloaded, task.ID).Error)
	s.Equal(models.TaskStatusTodo, reloaded.Status)
}

func (s *ServiceTestSuite) TestMoveTask_MissingTaskIsNotFound() {
	_, err := s.tasks.MoveTask(s.ctx, s.caller(s.joao), 4242, models.TaskStatusDone)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceTestSuite) TestMoveTask_AdminCrossesDepartments() {
	task := s.fixtures.Task("MAR-1", s.maria)

	moved, err := s.tasks.MoveTask(s.ctx, s.caller(s.admin), task.ID, models.TaskStatusDone)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusDone, moved.Status)
	s.Equal(s.mkt.ID, moved.DepartmentID)
}

func (s *ServiceTestSuite) TestMoveTask_InvalidStatus() {
	task := s.fixtures.Task("TEC-1", s.joao)

	_, err := s.tasks.MoveTask(s.ctx, s.caller(s.joao), task.ID, "archived")
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestDashboard_Empty() {
	snapshot, err := s.dashboard.GetDashboard(s.ctx, s.caller(s.joao))
	s.Require().NoError(err)

	s.Equal(map[models.TaskStatus]int64{"todo": 0, "inprogress": 0, "done": 0}, snapshot.StatusStats)
	s.Equal(map[models.TaskType]int64{"task": 0, "bug": 0, "story": 0}, snapshot.TypeStats)
	s.Equal(map[models.TaskPriority]int64{"low": 0, "medium": 0, "high": 0}, snapshot.PriorityStats)
	s.Empty(snapshot.WorkloadStats)
	s.Empty(snapshot.RecentActivities)
	s.Zero(snapshot.TotalTasks)
	s.Require().NotNil(snapshot.Department)
	s.Equal("Tecnologia", snapshot.Department.Department.Name)
}

func (s *ServiceTestSuite) TestDashboard_Histograms() {
	s.fixtures.Task("TEC-1", s.joao, testutil.WithType(models.TaskTypeBug), testutil.WithPriority(models.TaskPriorityHigh))
	s.fixtures.Task("TEC-2", s.joao, testutil.WithType(models.TaskTypeStory))
	s.fixtures.Task("TEC-3", s.joao, testutil.WithStatus(models.TaskStatusDone))
	s.fixtures.Task("MAR-1", s.maria, testutil.WithStatus(models.TaskStatusInProgress))

	snapshot, err := s.dashboard.GetDashboard(s.ctx, s.caller(s.joao))
	s.Require().NoError(err)

	s.Equal(map[models.TaskStatus]int64{"todo": 2, "inprogress": 0, "done": 1}, snapshot.StatusStats)
	s.Equal(map[models.TaskType]int64{"task": 1, "bug": 1, "story": 1}, snapshot.TypeStats)
	s.Equal(map[models.TaskPriority]int64{"low": 0, "medium": 2, "high": 1}, snapshot.PriorityStats)
	s.Equal(int64(3), snapshot.TotalTasks)
	s.Equal(int64(3), snapshot.Department.Counts.Tasks)

	snapshot, err = s.dashboard.GetDashboard(s.ctx, s.caller(s.admin))
	s.Require().NoError(err)
	s.Equal(int64(4), snapshot.TotalTasks)
	s.Equal(int64(1), snapshot.StatusStats[models.TaskStatusInProgress])
}

func (s *ServiceTestSuite) TestDashboard_WorkloadOmitsIdleAndInactiveUsers() {
	gone := s.fixtures.User("gone", models.RoleUser, s.tech.ID)
	s.fixtures.Task("TEC-1", s.joao, testutil.WithAssignee(s.joao.ID))
	s.fixtures.Task("TEC-2", s.joao, testutil.WithAssignee(s.joao.ID))
	s.fixtures.Task("TEC-3", s.joao, testutil.WithAssignee(gone.ID))
	s.fixtures.Task("TEC-4", s.joao)
	s.fixtures.Task("MAR-1", s.maria, testutil.WithAssignee(s.maria.ID))
	s.fixtures.Deactivate(gone)

	snapshot, err := s.dashboard.GetDashboard(s.ctx, s.caller(s.pedro))
	s.Require().NoError(err)
	s.Equal(map[string]int64{"joao": 2}, snapshot.WorkloadStats)

	snapshot, err = s.dashboard.GetDashboard(s.ctx, s.caller(s.admin))
	s.Require().NoError(err)
	s.Equal(map[string]int64{"joao": 2, "maria": 1}, snapshot.WorkloadStats)
}

func (s *ServiceTestSuite) TestDashboard_RecentActivitiesCappedAndOrdered() {
	var created []*models.Task
	for i := 1; i <= 12; i++ {
		created = append(created, s.fixtures.Task(fmt.Sprintf("TEC-%d", i), s.joao))
	}
	// Touch the oldest task so it becomes the most recent activity.
	_, err := s.tasks.MoveTask(s.ctx, s.caller(s.joao), created[0].ID, models.TaskStatusDone)
	s.Require().NoError(err)

	snapshot, err := s.dashboard.GetDashboard(s.ctx, s.caller(s.joao))
	s.Require().NoError(err)

	s.Equal(int64(12), snapshot.TotalTasks)
	s.Require().Len(snapshot.RecentActivities, 10)
	s.Equal("TEC-1", snapshot.RecentActivities[0].TaskKey)
	s.Equal(models.TaskStatusDone, snapshot.RecentActivities[0].Status)
	s.Equal("TEC-12", snapshot.RecentActivities[1].TaskKey)
	for i := 1; i < len(snapshot.RecentActivities); i++ {
		prev, cur := snapshot.RecentActivities[i-1], snapshot.RecentActivities[i]
		s.False(cur.UpdatedAt.After(prev.UpdatedAt), "activities must be ordered by updated_at desc")
	}
}

func (s *ServiceTestSuite) TestDashboard_UnassignedPlaceholder() {
	s.fixtures.Task("TEC-1", s.joao)
	s.fixtures.Task("TEC-2", s.joao, testutil.WithAssignee(s.pedro.ID))

	snapshot, err := s.dashboard.GetDashboard(s.ctx, s.caller(s.joao))
	s.Require().NoError(err)
	s.Require().Len(snapshot.RecentActivities, 2)
	s.Equal("pedro", snapshot.RecentActivities[0].Assignee)
	s.Equal("Unassigned", snapshot.RecentActivities[1].Assignee)
}

func (s *ServiceTestSuite) TestDashboard_MissingDepartmentIsNil() {
	orphan := access.Caller{UserID: s.joao.ID, Role: models.RoleUser, DepartmentID: 999, Active: true}

	snapshot, err := s.dashboard.GetDashboard(s.ctx, orphan)
	s.Require().NoError(err)
	s.Nil(snapshot.Department)
	s.Zero(snapshot.TotalTasks)
}

func taskKeys(tasks []models.Task) []string {
	keys := make([]string, len(tasks))
	for i, t := range tasks {
		keys[i] = t.Key
	}
	return keys
}

func usernames(users []models.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
