package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/auth"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

// Register creates a company and its admin user, returning a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		CompanyName string `json:"company_name"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Unprocessable(c, "Invalid request body")
		return
	}

	user, company, err := h.authService.Register(services.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:   token,
		User:    dto.ToUserDTO(*user),
		Company: dto.ToCompanyDTO(*company),
	})
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Unprocessable(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:   token,
		User:    dto.ToUserDTO(*user),
		Company: dto.ToCompanyDTO(user.Company),
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(actor))
}

func respondAuthError(c *gin.Context, err error) {
	var verr *apierrors.ValidationError

	switch {
	case errors.As(err, &verr):
		apierrors.UnprocessableWithFields(c, verr)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Unprocessable(c, "This email is already registered")
	case errors.Is(err, services.ErrCompanyHasAdmin):
		apierrors.Unprocessable(c, "This company already has an administrator. Ask them for access.")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
