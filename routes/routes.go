package routes

import (
	"Appointo/cache"
	"Appointo/config"
	"Appointo/controllers"
	"Appointo/database"
	"Appointo/handlers"
	"Appointo/middlewares"
	"Appointo/repositories"
	"Appointo/services"
	"Appointo/utils"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Dependencies are the long lived resources the routes are built from.
type Dependencies struct {
	Config *config.AppConfig
	DB     *gorm.DB
	Cache  *cache.Cache
	// Locker serializes admission per doctor and date. Use a RedisLocker when
	// more than one instance serves the same database.
	Locker   database.Locker
	Notifier services.Notifier
	Location *time.Location
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Doctor      *handlers.DoctorHandler
	Appointment *handlers.AppointmentHandler
	Health      *handlers.HealthHandler
}

// SetupRoutes initializes the repositories, services and handlers and returns
// the router serving them.
func SetupRoutes(deps Dependencies) (http.Handler, error) {
	tokens, err := utils.NewTokenMaker(deps.Config.SymmetricKey)
	if err != nil {
		return nil, err
	}

	locker := deps.Locker
	if locker == nil {
		locker = database.NewKeyedLocker()
	}

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(deps.DB, deps.Cache)
	doctorRepo := repositories.NewDoctorRepository(deps.DB, deps.Cache)
	appointmentRepo := repositories.NewAppointmentRepository(deps.DB)

	userService := services.NewUserService(userRepo, tokens)
	doctorService := services.NewDoctorService(doctorRepo)
	appointmentService := services.NewAppointmentService(
		appointmentRepo,
		doctorRepo,
		userRepo,
		locker,
		deps.Notifier,
		services.AppointmentConfig{
			SlotLength:       deps.Config.SlotLength(),
			ReclaimCancelled: deps.Config.ReclaimCancelledSlots,
			MaxRetries:       deps.Config.AdmissionMaxRetries,
			Location:         deps.Location,
		},
	)

	pingers := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, deps.DB) },
	}

	return NewRouter(deps.Config, tokens, Handlers{
		Auth:        handlers.NewAuthHandler(userService),
		Doctor:      handlers.NewDoctorHandler(doctorService),
		Appointment: handlers.NewAppointmentHandler(appointmentService),
		Health:      handlers.NewHealthHandler(pingers),
	}), nil
}

// NewRouter applies the middleware chain and registers every route.
func NewRouter(cfg *config.AppConfig, tokens *utils.TokenMaker, h Handlers) *gin.Engine {
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middlewares.RecoveryMiddleware(log.Logger))
	router.Use(middlewares.LoggingMiddleware(log.Logger))
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(cfg.CORSOrigins)))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	requireUser := middlewares.TokenAuthMiddleware(tokens)
	requireAdmin := middlewares.ValidateBearerToken(cfg.GetBearerToken())

	// Register routes
	api := router.Group("/api")
	controllers.NewAuthController(h.Auth).RegisterRoutes(api, requireUser)
	controllers.SetupDoctorRoutes(api, h.Doctor, h.Appointment, requireAdmin)
	controllers.SetupPatientRoutes(api, h.Appointment, requireUser)
	controllers.SetupRootRoute(router, h.Health)

	return router
}
