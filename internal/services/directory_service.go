package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
)

// DirectoryService lists departments and the users a caller may see.
type DirectoryService struct {
	store *repository.Store
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(store *repository.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

// DepartmentOverview is a department with its user and task totals.
type DepartmentOverview struct {
	Department models.Department
	Counts     repository.DepartmentCounts
}

// ListDepartments returns every department ordered by ID. It needs no caller.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]DepartmentOverview, error) {
	var overviews []DepartmentOverview
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		departments, err := tx.Departments.List()
		if err != nil {
			return fmt.Errorf("failed to list departments: %w", err)
		}

		ids := make([]uint64, len(departments))
		for i, d := range departments {
			ids[i] = d.ID
		}
		counts, err := tx.Departments.Counts(ids)
		if err != nil {
			return fmt.Errorf("failed to count department members: %w", err)
		}

		overviews = make([]DepartmentOverview, len(departments))
		for i, d := range departments {
			overviews[i] = DepartmentOverview{Department: d, Counts: counts[d.ID]}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return overviews, nil
}

// ListUsers returns the active users visible to the caller.
func (s *DirectoryService) ListUsers(ctx context.Context, caller access.Caller) ([]models.User, error) {
	if !caller.Valid() {
		return nil, ErrCallerInactive
	}

	users, err := s.store.WithContext(ctx).Users.ListVisible(caller)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
