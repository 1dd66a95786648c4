package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/services"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// taskRequest is the shared body shape for create and update. Pointers keep
// absent and zero-valued fields distinguishable for partial updates.
type taskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Progress    *int       `json:"progress"`
	HoursWorked *float64   `json:"hours_worked"`
	AssigneeID  *uint64    `json:"assignee_id"`
}

// ListTasks returns the actor's visible tasks with optional status and
// priority filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var input services.ListTasksInput
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		input.Priority = &priority
	}

	tasks, err := h.taskService.ListTasks(&actor, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task, self-assigned unless an admin says otherwise.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Unprocessable(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		DueDate:     req.DueDate,
		Progress:    req.Progress,
		HoursWorked: req.HoursWorked,
		AssigneeID:  req.AssigneeID,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Status != nil {
		input.Status = models.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		input.Priority = models.TaskPriority(*req.Priority)
	}

	task, err := h.taskService.CreateTask(&actor, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task the actor may access.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(&actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task the actor may access.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Unprocessable(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Progress:    req.Progress,
		HoursWorked: req.HoursWorked,
		AssigneeID:  req.AssigneeID,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.UpdateTask(&actor, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task the actor may access.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(&actor, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// taskRequestContext extracts the actor and the :id parameter. An unparseable
// id is treated like a missing task.
func taskRequestContext(c *gin.Context) (models.User, uint64, bool) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return models.User{}, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return models.User{}, 0, false
	}

	return actor, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	var verr *apierrors.ValidationError

	switch {
	case errors.As(err, &verr):
		apierrors.UnprocessableWithFields(c, verr)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskAccessDenied):
		apierrors.Forbidden(c, "No permission to access this task")
	case errors.Is(err, services.ErrAssignmentDenied):
		apierrors.Forbidden(c, "Only administrators can assign tasks to other users")
	default:
		apierrors.InternalError(c, "")
	}
}
