// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"brrads/internal/cache"
	"brrads/internal/config"
	"brrads/internal/database"
	"brrads/internal/middleware"
	"brrads/internal/models"
	"brrads/internal/policy"
	"brrads/internal/repository"
	"brrads/internal/service"
	"brrads/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	requestRepo repository.GameRequestRepository
	fanArtRepo  repository.FanArtRepository
	streamRepo  repository.LiveStreamRepository
	settingRepo repository.SiteSettingRepository

	authService     *service.AuthService
	userService     *service.UserService
	requestService  *service.GameRequestService
	fanArtService   *service.FanArtService
	streamService   *service.LiveStreamService
	settingsService *service.SettingsService
	statsService    *service.StatsService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("brrads-api"),
		userRepo:       repository.NewUserRepository(db),
		requestRepo:    repository.NewGameRequestRepository(db),
		fanArtRepo:     repository.NewFanArtRepository(db),
		streamRepo:     repository.NewLiveStreamRepository(db),
		settingRepo:    repository.NewSiteSettingRepository(db),
	}

	files := storage.NewFileStore(cfg.UploadDir)
	jwtTTL := time.Duration(cfg.JWTTTLHours) * time.Hour

	server.authService = service.NewAuthService(server.userRepo, cfg.JWTSecret, jwtTTL)
	server.userService = service.NewUserService(server.userRepo)
	server.requestService = service.NewGameRequestService(server.requestRepo, files)
	server.fanArtService = service.NewFanArtService(server.fanArtRepo, files)
	server.streamService = service.NewLiveStreamService(server.streamRepo)
	server.settingsService = service.NewSettingsService(server.settingRepo)
	server.statsService = service.NewStatsService(
		server.requestRepo, server.fanArtRepo, server.userRepo, server.streamRepo, redisClient)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded images are served straight from disk.
	app.Static("/uploads", s.config.UploadDir)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Public browse routes
	api.Get("/requests", s.GetGameRequests)
	api.Get("/fanart", s.GetFanArtGallery)
	api.Get("/stream/current", s.GetCurrentStream)
	api.Get("/settings", s.GetSettings)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Submissions
	protected.Post("/requests", middleware.RateLimit(
		s.redis, 10, time.Minute, "submit_request"), s.CreateGameRequest)
	protected.Get("/requests/me", s.GetMyGameRequests)
	protected.Get("/requests/:id", s.GetGameRequest)
	protected.Post("/fanart", middleware.RateLimit(
		s.redis, 10, time.Minute, "submit_fanart"), s.CreateFanArt)
	protected.Get("/fanart/me", s.GetMyFanArt)
	protected.Get("/fanart/:id", s.GetFanArt)

	// Profile
	protected.Put("/users/me", s.UpdateMyProfile)

	// Moderation and admin routes. Role checks live in the services, so these
	// groups only require authentication.
	admin := protected.Group("/admin")
	admin.Get("/requests", s.GetAllGameRequests)
	admin.Put("/requests/:id/status", s.UpdateGameRequestStatus)
	admin.Delete("/requests/:id", s.DeleteGameRequest)
	admin.Get("/fanart", s.GetAllFanArt)
	admin.Put("/fanart/:id/status", s.UpdateFanArtStatus)
	admin.Delete("/fanart/:id", s.DeleteFanArt)
	admin.Get("/stats", s.GetDashboardStats)

	admin.Get("/users", s.GetUsers)
	admin.Get("/users/:id", s.GetUser)
	admin.Put("/users/:id/role", s.UpdateUserRole)
	admin.Put("/users/:id/status", s.UpdateUserStatus)
	admin.Delete("/users/:id", s.DeleteUser)

	admin.Get("/streams", s.GetStreams)
	admin.Post("/streams", s.CreateStream)
	admin.Put("/streams/:id", s.UpdateStream)
	admin.Put("/streams/:id/active", s.SetStreamActive)
	admin.Delete("/streams/:id", s.DeleteStream)

	admin.Put("/settings/:key", s.UpdateSetting)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis; it only loses caching and per-endpoint
		// rate limits, so readiness does not depend on it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It validates the JWT,
// loads the user, and stores a policy.Actor in locals for the handlers.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid token claims"))
		}
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "brrads-api" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "brrads-client" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Load the user so role and active status are current, not whatever
		// they were when the token was minted.
		user, err := s.userRepo.GetByID(c.Context(), uint(userID))
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		if user == nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Account no longer exists"))
		}

		c.Locals("userID", user.ID)
		c.Locals("actor", policy.Actor{
			ID:       user.ID,
			Role:     user.Role,
			IsActive: user.IsActive,
		})
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Shutdown releases server resources after the HTTP listener has stopped.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
