package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/auth"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/database"
	"github.com/taskboard/taskboard-api/internal/handlers"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token manager
	tokens := auth.NewJWTManager(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		TTL:       time.Duration(cfg.JWTTTLHours) * time.Hour,
		Issuer:    "taskboard-api",
	})

	// Repositories
	companyRepo := repository.NewCompanyRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	// Services
	authService := services.NewAuthService(userRepo, companyRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	adminService := services.NewAdminService(taskRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokens)
	taskHandler := handlers.NewTaskHandler(taskService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	// Public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Authenticated routes
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

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
