package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/task-tracker/internal/api/handler"
	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/service"
	"github.com/taskhive/task-tracker/internal/infrastructure/config"
	mongodb "github.com/taskhive/task-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/task-tracker/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("tasktracker"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	userCache := redisdb.NewUserCache(rdb, 5*time.Minute)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, hasher, tokens, log)
	taskService := service.NewTaskService(taskRepo, log)

	cookies := handler.CookieConfig{Secure: cfg.SecureCookies(), TTL: tokens.TTL()}
	authHandler := handler.NewAuthHandler(authService, cookies)
	taskHandler := handler.NewTaskHandler(taskService)

	resolver := middleware.NewCachedResolver(userCache, userRepo, log)
	session := middleware.Session(tokens, resolver)

	// --- Auth routes ---
	user := e.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.POST("/forgot-password", authHandler.ForgotPassword)
	user.DELETE("/logout", authHandler.Logout, session)
	user.GET("/me", authHandler.Me, session)

	// --- Task routes (all behind the session gate) ---
	tasks := e.Group("/tasks", session)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.PUT("/updateStatus/:id", taskHandler.UpdateStatus)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
