package database

import (
	"github.com/yukikurage/agiliza-api/internal/access"
	"gorm.io/gorm"
)

// DepartmentScope restricts rows of table to the caller's department.
// Admins see every department.
func DepartmentScope(caller access.Caller, table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		deptID, restricted := caller.DepartmentFilter()
		if !restricted {
			return db
		}
		return db.Where(table+".department_id = ?", deptID)
	}
}

// ActiveUsers keeps only accounts that have not been deactivated.
func ActiveUsers(db *gorm.DB) *gorm.DB {
	return db.Where("users.is_active = ?", true)
}
