// Package http wires the gin engine: handlers, the request gate and the rest
// of the middleware chain.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lectern/internal/application/auth"
	"lectern/internal/infrastructure/config"
	"lectern/internal/infrastructure/repository"
	"lectern/internal/infrastructure/token"
	"lectern/internal/infrastructure/upstream"
	"lectern/internal/interfaces/http/handlers"
	"lectern/internal/interfaces/http/middleware"
	"lectern/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	authHandler    *handlers.AuthHandler
	profileHandler *handlers.ProfileHandler
	courseHandler  *handlers.CourseHandler
	gatekeeper     *auth.Gatekeeper
	loginLimiter   *middleware.RateLimiter
	cfg            *config.Config
	logger         logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()
	RegisterValidators()

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)

	jwtCfg := cfg.Auth.JWT
	tokenManager := token.NewManager(
		jwtCfg.AccessSecret, jwtCfg.RefreshSecret,
		jwtCfg.AccessTTL(), jwtCfg.RefreshTTL(),
	)

	upstreamClient := upstream.NewClient(cfg.Upstream.Endpoint, cfg.Upstream.Timeout(), log)
	resolver := auth.NewResolver(courseRepo, semesterRepo, log)

	authService := auth.NewService(
		userRepo, sessionRepo, resolver, tokenManager,
		upstreamClient, jwtCfg.ShadowTTL(), log,
	)
	profileService := auth.NewProfileService(userRepo, courseRepo, resolver, log)
	gatekeeper := auth.NewGatekeeper(tokenManager, log)

	return &Router{
		engine:         engine,
		authHandler:    handlers.NewAuthHandler(authService, cfg.Auth.Cookie, jwtCfg, log),
		profileHandler: handlers.NewProfileHandler(profileService, log),
		courseHandler:  handlers.NewCourseHandler(courseRepo, log),
		gatekeeper:     gatekeeper,
		loginLimiter:   middleware.NewRateLimiter(redisClient, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow()),
		cfg:            cfg,
		logger:         log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.ErrorHandler())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")

	// Credential submission is the only public API path.
	api.POST("/authenticate", r.loginLimiter.Limit(), r.authHandler.Authenticate)

	gate := middleware.RequestGate(
		r.gatekeeper,
		r.cfg.Auth.Cookie,
		int(r.cfg.Auth.JWT.AccessTTL().Seconds()),
		r.logger,
	)

	protected := api.Group("")
	protected.Use(gate)
	{
		protected.GET("/profile", r.profileHandler.Current)
		protected.POST("/profile", r.profileHandler.Complete)
		protected.GET("/courses", r.courseHandler.List)
		protected.POST("/courses", middleware.RequireAdmin(r.logger), r.courseHandler.Create)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
