package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/config"
	"github.com/yukikurage/agiliza-api/internal/database"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"github.com/yukikurage/agiliza-api/internal/services"
	"github.com/yukikurage/agiliza-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.NewDB(t, testutil.NewClock())

	require.NoError(t, database.Migrate(db, testutil.NullLogger()))

	for _, name := range []string{
		"idx_tasks_department_created",
		"idx_tasks_department_updated",
		"idx_tasks_department_status",
	} {
		assert.True(t, db.Migrator().HasIndex("tasks", name), name)
	}
	assert.True(t, db.Migrator().HasIndex("users", "idx_users_department_active"))
	assert.True(t, db.Migrator().HasTable(&models.TaskKeyCounter{}))
}

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t, testutil.NewClock())
	log := testutil.NullLogger()

	require.NoError(t, database.Seed(db, log))
	// A second run leaves the data alone.
	require.NoError(t, database.Seed(db, log))

	var departments, users, tasks int64
	require.NoError(t, db.Model(&models.Department{}).Count(&departments).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Task{}).Count(&tasks).Error)
	assert.Equal(t, int64(4), departments)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(6), tasks)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(database.DemoPassword)))

	var keys []string
	require.NoError(t, db.Model(&models.Task{}).Order("id").Pluck("key", &keys).Error)
	assert.Equal(t, []string{"TEC-1", "TEC-2", "TEC-3", "MAR-1", "MAR-2", "REC-1"}, keys)
}

func TestSeed_KeysContinueAfterSeedData(t *testing.T) {
	db := testutil.NewDB(t, testutil.NewClock())
	require.NoError(t, database.Seed(db, testutil.NullLogger()))

	var joao models.User
	require.NoError(t, db.Where("username = ?", "joao.silva").First(&joao).Error)

	svc := services.NewTaskService(repository.NewStore(db), nil)
	task, err := svc.CreateTask(context.Background(), access.FromUser(&joao), services.CreateTaskInput{Title: "Next"})
	require.NoError(t, err)
	assert.Equal(t, "TEC-4", task.Key)
}

func TestDepartmentScope(t *testing.T) {
	db := testutil.NewDB(t, testutil.NewClock())
	fixtures := testutil.NewFixtures(t, db)
	tech := fixtures.Department("Tecnologia")
	mkt := fixtures.Department("Marketing")
	joao := fixtures.User("joao", models.RoleUser, tech.ID)
	maria := fixtures.User("maria", models.RoleManager, mkt.ID)
	admin := fixtures.User("admin", models.RoleAdmin, tech.ID)
	fixtures.Deactivate(fixtures.User("gone", models.RoleUser, mkt.ID))

	count := func(caller access.Caller) int64 {
		var n int64
		require.NoError(t, db.Model(&models.User{}).
			Scopes(database.DepartmentScope(caller, "users"), database.ActiveUsers).
			Count(&n).Error)
		return n
	}

	assert.Equal(t, int64(2), count(access.FromUser(joao)))
	assert.Equal(t, int64(1), count(access.FromUser(maria)))
	assert.Equal(t, int64(3), count(access.FromUser(admin)))
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{config.DriverMySQL, "mysql"},
		{config.DriverPostgres, "postgres"},
		{config.DriverSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := database.Dialector(&config.Config{DBDriver: tt.driver, SQLitePath: ":memory:"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := database.Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
