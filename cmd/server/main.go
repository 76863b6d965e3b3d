package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/knakagawa/task-tracker-api/internal/config"
	"github.com/knakagawa/task-tracker-api/internal/constants"
	"github.com/knakagawa/task-tracker-api/internal/database"
	"github.com/knakagawa/task-tracker-api/internal/handlers"
	"github.com/knakagawa/task-tracker-api/internal/logging"
	"github.com/knakagawa/task-tracker-api/internal/middleware"
	"github.com/knakagawa/task-tracker-api/internal/repository"
	"github.com/knakagawa/task-tracker-api/internal/services"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Str("driver", cfg.DBDriver).Msg("database connection established")

	if err := database.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	// Session store: Redis-backed token -> user id mapping with expiry.
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Redis store")
	}

	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo))
	importHandler := handlers.NewImportHandler(services.NewImportService(taskRepo))
	exportHandler := handlers.NewExportHandler(services.NewExportService(taskRepo))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Auth routes (public)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.POST("/bulk", importHandler.BulkCreateTasks)
		tasks.GET("/stats", taskHandler.Stats)
		tasks.GET("/export", exportHandler.ExportTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	logger.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
