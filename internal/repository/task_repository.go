package repository

import (
	"strconv"
	"strings"

	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/database"
	"github.com/yukikurage/agiliza-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks visible to the filter's caller.
// Ties on created_at are broken by ID so the order is deterministic.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.visible(filter.Caller)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}

	tasks := []models.Task{}
	if err := query.
		Preload("Assignee").
		Preload("Creator").
		Preload("Department").
		Order("tasks.created_at DESC").
		Order("tasks.id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves the task columns. Associations are left untouched.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Count counts tasks visible to the caller
func (r *GormTaskRepository) Count(caller access.Caller) (int64, error) {
	var total int64
	if err := r.visible(caller).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountBy counts visible tasks grouped by column
func (r *GormTaskRepository) CountBy(caller access.Caller, column GroupColumn) (map[string]int64, error) {
	var rows []struct {
		Bucket string
		Total  int64
	}

	col := "tasks." + string(column)
	if err := r.visible(caller).
		Select(col + " AS bucket, COUNT(*) AS total").
		Group(col).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Bucket] = row.Total
	}
	return counts, nil
}

// CountByAssignee counts visible assigned tasks per assignee ID
func (r *GormTaskRepository) CountByAssignee(caller access.Caller) (map[uint64]int64, error) {
	var rows []struct {
		AssigneeID uint64
		Total      int64
	}

	if err := r.visible(caller).
		Select("tasks.assignee_id AS assignee_id, COUNT(*) AS total").
		Where("tasks.assignee_id IS NOT NULL").
		Group("tasks.assignee_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		counts[row.AssigneeID] = row.Total
	}
	return counts, nil
}

// Recent lists the most recently updated visible tasks with their assignee
func (r *GormTaskRepository) Recent(caller access.Caller, limit int) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.visible(caller).
		Preload("Assignee").
		Order("tasks.updated_at DESC").
		Order("tasks.id DESC").
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// NextKeyNumber increments the counter of a key prefix and returns the new value.
//
// The first call for a prefix seeds the counter with the highest number
// already used in a key with that prefix. The UPDATE row lock serialises
// concurrent creations sharing the prefix only; call it inside the
// task-creation transaction.
func (r *GormTaskRepository) NextKeyNumber(prefix string) (uint64, error) {
	next, ok, err := r.incrementCounter(prefix)
	if err != nil || ok {
		return next, err
	}

	highest, err := r.highestKeyNumber(prefix)
	if err != nil {
		return 0, err
	}

	// A concurrent creator may have inserted the row first; either way the
	// increment below runs against a single counter row.
	counter := models.TaskKeyCounter{Prefix: prefix, LastNumber: highest}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
		return 0, err
	}

	next, ok, err = r.incrementCounter(prefix)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return next, nil
}

func (r *GormTaskRepository) incrementCounter(prefix string) (uint64, bool, error) {
	res := r.db.Model(&models.TaskKeyCounter{}).
		Where("prefix = ?", prefix).
		UpdateColumn("last_number", gorm.Expr("last_number + ?", 1))
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	var counter models.TaskKeyCounter
	if err := r.db.Where("prefix = ?", prefix).Take(&counter).Error; err != nil {
		return 0, false, err
	}
	return counter.LastNumber, true, nil
}

// highestKeyNumber scans keys of the form "<prefix>-<n>". LIKE only narrows
// the rows; the exact prefix match happens here.
func (r *GormTaskRepository) highestKeyNumber(prefix string) (uint64, error) {
	var keys []string
	if err := r.db.Model(&models.Task{}).
		Where(clause.Like{Column: clause.Column{Table: "tasks", Name: "key"}, Value: prefix + "-%"}).
		Pluck("key", &keys).Error; err != nil {
		return 0, err
	}

	var highest uint64
	for _, key := range keys {
		rest, ok := strings.CutPrefix(key, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest, nil
}

func (r *GormTaskRepository) visible(caller access.Caller) *gorm.DB {
	return r.db.Model(&models.Task{}).Scopes(database.DepartmentScope(caller, "tasks"))
}
