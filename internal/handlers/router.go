package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/constants"
	"github.com/yukikurage/agiliza-api/internal/middleware"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"github.com/yukikurage/agiliza-api/internal/services"
)

// RouterConfig holds everything the HTTP layer is built from.
type RouterConfig struct {
	Store              *repository.Store
	AuthService        *services.AuthService
	TaskService        *services.TaskService
	DirectoryService   *services.DirectoryService
	DashboardService   *services.DashboardService
	SessionStore       sessions.Store
	LoginRatePerMinute int
	Log                *logrus.Logger
}

// NewRouter wires middleware, handlers and routes into a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(sessions.Sessions(constants.SessionCookieName, cfg.SessionStore))

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Log)
	taskHandler := NewTaskHandler(cfg.TaskService, cfg.Log)
	directoryHandler := NewDirectoryHandler(cfg.DirectoryService, cfg.Log)
	dashboardHandler := NewDashboardHandler(cfg.DashboardService, cfg.Log)

	requireAuth := middleware.RequireAuth(cfg.AuthService, cfg.Log)
	credentialLimit := middleware.RateLimitByIP(cfg.LoginRatePerMinute, cfg.Log)

	api := r.Group("/api")
	{
		api.GET("/health", Health(cfg.Store, cfg.Log))

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", credentialLimit, authHandler.Register)
			auth.POST("/login", credentialLimit, authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		api.GET("/departments", directoryHandler.ListDepartments)
		api.GET("/users", requireAuth, directoryHandler.ListUsers)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id/move", taskHandler.MoveTask)
			tasks.POST("/suggestions", taskHandler.SuggestTasks)
		}

		api.GET("/dashboard/stats", requireAuth, dashboardHandler.GetStats)
	}

	return r
}
