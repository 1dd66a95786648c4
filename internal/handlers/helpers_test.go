package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/auth"
	"github.com/taskboard/taskboard-api/internal/database"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
	"gorm.io/gorm"
)

// newTestRouter wires the full application router against db, mirroring
// cmd/server. Requests in tests run through the real auth middleware.
func newTestRouter(db *gorm.DB) (*gin.Engine, *auth.JWTManager) {
	database.SetDB(db)

	tokens := auth.NewJWTManager(auth.JWTConfig{
		SecretKey: "test-secret",
		TTL:       time.Hour,
		Issuer:    "taskboard-test",
	})

	companyRepo := repository.NewCompanyRepository(db)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, companyRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	adminService := services.NewAdminService(taskRepo, userRepo)

	authHandler := NewAuthHandler(authService, tokens)
	taskHandler := NewTaskHandler(taskService)
	adminHandler := NewAdminHandler(adminService)

	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authorized := r.Group("/")
	authorized.Use(middleware.RequireAuth(tokens))
	{
		authorized.GET("/me", authHandler.Me)

		tasks := authorized.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		admin := authorized.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/tasks", adminHandler.ListTasks)
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
		}
	}

	return r, tokens
}

// itoa formats an id for URL paths
func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
