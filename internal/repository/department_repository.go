package repository

import (
	"github.com/yukikurage/agiliza-api/internal/models"
	"gorm.io/gorm"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(id uint64) (*models.Department, error) {
	var dept models.Department
	if err := r.db.First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

// List returns every department ordered by ID
func (r *GormDepartmentRepository) List() ([]models.Department, error) {
	var departments []models.Department
	if err := r.db.Order("departments.id ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// Counts returns user and task totals for the given departments.
// Departments without rows are present with zero counts.
func (r *GormDepartmentRepository) Counts(ids []uint64) (map[uint64]DepartmentCounts, error) {
	counts := make(map[uint64]DepartmentCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	for _, id := range ids {
		counts[id] = DepartmentCounts{}
	}

	type row struct {
		DepartmentID uint64
		Total        int64
	}

	var userRows []row
	if err := r.db.Model(&models.User{}).
		Select("department_id, COUNT(*) AS total").
		Where("department_id IN ?", ids).
		Group("department_id").
		Scan(&userRows).Error; err != nil {
		return nil, err
	}

	var taskRows []row
	if err := r.db.Model(&models.Task{}).
		Select("department_id, COUNT(*) AS total").
		Where("department_id IN ?", ids).
		Group("department_id").
		Scan(&taskRows).Error; err != nil {
		return nil, err
	}

	for _, row := range userRows {
		c := counts[row.DepartmentID]
		c.Users = row.Total
		counts[row.DepartmentID] = c
	}
	for _, row := range taskRows {
		c := counts[row.DepartmentID]
		c.Tasks = row.Total
		counts[row.DepartmentID] = c
	}

	return counts, nil
}
