// Package access holds the visibility rules that decide which departments,
// users and tasks a caller may see or modify.
package access

import "github.com/yukikurage/agiliza-api/internal/models"

// Caller is the authenticated identity a request runs as.
type Caller struct {
	UserID       uint64
	Name         string
	Role         models.Role
	DepartmentID uint64
	Active       bool
}

// FromUser builds a Caller from a loaded user record.
func FromUser(user *models.User) Caller {
	return Caller{
		UserID:       user.ID,
		Name:         user.Name,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		Active:       user.IsActive,
	}
}

// Valid reports whether the caller refers to an existing, active account
// holding a known role.
func (c Caller) Valid() bool {
	return c.UserID != 0 && c.Active && c.Role.Valid()
}

// IsAdmin reports whether the caller bypasses department scoping.
// Managers scope exactly like regular users.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// DepartmentFilter returns the department rows must belong to, and false when
// no restriction applies.
func (c Caller) DepartmentFilter() (uint64, bool) {
	if c.IsAdmin() {
		return 0, false
	}
	return c.DepartmentID, true
}

// CanSee reports whether a row owned by departmentID is visible to the caller.
func (c Caller) CanSee(departmentID uint64) bool {
	deptID, restricted := c.DepartmentFilter()
	return !restricted || deptID == departmentID
}

// CanMutate reports whether the caller may change the task.
func (c Caller) CanMutate(task *models.Task) bool {
	return c.CanSee(task.DepartmentID)
}
