package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/dto"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
	"github.com/yukikurage/agiliza-api/internal/models"
	"github.com/yukikurage/agiliza-api/internal/services"
)

const suggestionTimeout = 30 * time.Second

type TaskHandler struct {
	taskService *services.TaskService
	log         *logrus.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns the tasks visible to the caller, newest first.
// Can filter by status and assignee_id
func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	type ListTasksQuery struct {
		Status     string `form:"status" binding:"omitempty,oneof=todo inprogress done"`
		AssigneeID string `form:"assignee_id"`
	}

	var query ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err, "Invalid status")
		return
	}

	var input services.ListTasksInput
	if query.Status != "" {
		status := models.TaskStatus(query.Status)
		input.Status = &status
	}
	if query.AssigneeID != "" {
		assigneeID, err := strconv.ParseUint(query.AssigneeID, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		input.AssigneeID = &assigneeID
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), caller, input)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task in the caller's department
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title" binding:"required,max=500"`
		Description string  `json:"description"`
		Status      string  `json:"status" binding:"omitempty,oneof=todo inprogress done"`
		Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
		TaskType    string  `json:"task_type" binding:"omitempty,oneof=task bug story"`
		AssigneeID  *uint64 `json:"assignee_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		Type:        models.TaskType(req.TaskType),
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// MoveTask changes the status of a task
func (h *TaskHandler) MoveTask(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type MoveTaskRequest struct {
		Status string `json:"status" binding:"required,oneof=todo inprogress done"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid status")
		return
	}

	task, err := h.taskService.MoveTask(c.Request.Context(), caller, taskID, models.TaskStatus(req.Status))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// SuggestTasks extracts task suggestions from free text using AI.
// Suggestions are returned for review and are not saved.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), suggestionTimeout)
	defer cancel()

	suggestions, err := h.taskService.SuggestTasks(ctx, caller, req.Text)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": dto.ToSuggestedTaskDTOs(suggestions),
		"count":       len(suggestions),
	})
}
