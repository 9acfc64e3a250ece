package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/constants"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"gorm.io/gorm"
)

// Relations loaded whenever a single task is returned
var taskPreloads = []string{"Assignee", "Creator", "Department"}

// TaskSuggester turns free text into task suggestions
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error)
}

// TaskService handles task business logic
type TaskService struct {
	store     *repository.Store
	suggester TaskSuggester
}

// NewTaskService creates a new TaskService. suggester may be nil.
func NewTaskService(store *repository.Store, suggester TaskSuggester) *TaskService {
	return &TaskService{
		store:     store,
		suggester: suggester,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	AssigneeID *uint64
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Type        models.TaskType
	AssigneeID  *uint64
}

// ListTasks returns the tasks visible to the caller, newest first
func (s *TaskService) ListTasks(ctx context.Context, caller access.Caller, input ListTasksInput) ([]models.Task, error) {
	if !caller.Valid() {
		return nil, ErrCallerInactive
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.store.WithContext(ctx).Tasks.List(repository.TaskFilter{
		Caller:     caller,
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a task in the caller's department with a fresh key
func (s *TaskService) CreateTask(ctx context.Context, caller access.Caller, input CreateTaskInput) (*models.Task, error) {
	if !caller.Valid() {
		return nil, ErrCallerInactive
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if input.Type == "" {
		input.Type = models.TaskTypeTask
	}
	if err := validateTaskEnums(input.Status, input.Priority, input.Type); err != nil {
		return nil, err
	}

	var created *models.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		dept, err := tx.Departments.FindByID(caller.DepartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDepartmentNotFound
			}
			return fmt.Errorf("failed to find department: %w", err)
		}

		if input.AssigneeID != nil {
			assignee, err := tx.Users.FindByID(*input.AssigneeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidAssignee
				}
				return fmt.Errorf("failed to find assignee: %w", err)
			}
			if !assignee.IsActive {
				return ErrInvalidAssignee
			}
		}

		key, err := GenerateTaskKey(tx.Tasks, dept)
		if err != nil {
			return err
		}

		task := &models.Task{
			Title:        input.Title,
			Description:  input.Description,
			Status:       input.Status,
			Priority:     input.Priority,
			Type:         input.Type,
			Key:          key,
			AssigneeID:   input.AssigneeID,
			CreatorID:    caller.UserID,
			DepartmentID: dept.ID,
		}
		if err := tx.Tasks.Create(task); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTaskKeyTaken
			}
			return fmt.Errorf("failed to create task: %w", err)
		}

		created, err = tx.Tasks.FindByID(task.ID, taskPreloads...)
		if err != nil {
			return fmt.Errorf("failed to reload task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MoveTask changes the status of a task in the caller's department.
// A missing task yields ErrTaskNotFound; a task owned by another department
// yields ErrTaskPermissionDenied. Any status may follow any other.
func (s *TaskService) MoveTask(ctx context.Context, caller access.Caller, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	if !caller.Valid() {
		return nil, ErrCallerInactive
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var moved *models.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if !caller.CanMutate(task) {
			return ErrTaskPermissionDenied
		}

		task.Status = status
		if err := tx.Tasks.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		moved, err = tx.Tasks.FindByID(task.ID, taskPreloads...)
		if err != nil {
			return fmt.Errorf("failed to reload task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// SuggestTasks asks the AI service for task suggestions. Nothing is stored.
func (s *TaskService) SuggestTasks(ctx context.Context, caller access.Caller, text string) ([]SuggestedTask, error) {
	if !caller.Valid() {
		return nil, ErrCallerInactive
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrSuggestionTextEmpty
	}
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(suggestions) > constants.MaxAIGeneratedTasks {
		suggestions = suggestions[:constants.MaxAIGeneratedTasks]
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	for _, st := range suggestions {
		st.Title = strings.TrimSpace(st.Title)
		if st.Title == "" {
			continue
		}
		if !st.Priority.Valid() {
			st.Priority = models.TaskPriorityMedium
		}
		if !st.Type.Valid() {
			st.Type = models.TaskTypeTask
		}
		valid = append(valid, st)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return valid, nil
}

func validateTaskEnums(status models.TaskStatus, priority models.TaskPriority, taskType models.TaskType) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	if !taskType.Valid() {
		return ErrInvalidType
	}
	return nil
}
