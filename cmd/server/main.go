package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/config"
	"github.com/yukikurage/agiliza-api/internal/database"
	"github.com/yukikurage/agiliza-api/internal/handlers"
	"github.com/yukikurage/agiliza-api/internal/logger"
	"github.com/yukikurage/agiliza-api/internal/repository"
	"github.com/yukikurage/agiliza-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.SeedData {
		if err := database.Seed(db, log); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	sessionStore, err := newSessionStore(cfg, log)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Info("OPENAI_API_KEY not set, task suggestions disabled")
	}

	store := repository.NewStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	router := handlers.NewRouter(handlers.RouterConfig{
		Store:              store,
		AuthService:        services.NewAuthService(store, tokens),
		TaskService:        services.NewTaskService(store, suggester),
		DirectoryService:   services.NewDirectoryService(store),
		DashboardService:   services.NewDashboardService(store),
		SessionStore:       sessionStore,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		Log:                log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server exited")
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise.
func newSessionStore(cfg *config.Config, log *logrus.Logger) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", redisAddr).Info("Using Redis session store")
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
