package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/policy"
	"github.com/taskboard/taskboard-api/internal/services"
)

// AdminHandler coordinates the admin-only HTTP handlers.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Dashboard returns company-wide task statistics.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.adminService.Dashboard(&actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(stats))
}

// ListTasks returns every company task with creator and assignee attached.
func (h *AdminHandler) ListTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.adminService.ListTasks(&actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListUsers returns every company user ordered by name.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.adminService.ListUsers(&actor)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// CreateUser adds a user to the admin's company.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateUserRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Unprocessable(c, "Invalid request body")
		return
	}

	user, err := h.adminService.CreateUser(&actor, services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func respondAdminError(c *gin.Context, err error) {
	var verr *apierrors.ValidationError

	switch {
	case errors.As(err, &verr):
		apierrors.UnprocessableWithFields(c, verr)
	case errors.Is(err, policy.ErrAdminRequired):
		apierrors.Forbidden(c, "Administrator access required")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Unprocessable(c, "This email is already registered")
	default:
		apierrors.InternalError(c, "")
	}
}
