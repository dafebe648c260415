package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/amrutam/booking-system/internal/api/handler"
	"github.com/amrutam/booking-system/internal/api/middleware"
	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/service"
	"github.com/amrutam/booking-system/internal/infrastructure/config"
	"github.com/amrutam/booking-system/internal/infrastructure/db/postgres"
	"github.com/amrutam/booking-system/internal/infrastructure/db/redis"
	"github.com/amrutam/booking-system/internal/infrastructure/mail"
	"github.com/amrutam/booking-system/internal/infrastructure/queue"
)

// Dependencies carries the process-scoped clients the router wires into
// handlers. All of them are constructed at startup and shut down with the
// process; nothing here is a package-level singleton.
type Dependencies struct {
	Config     *config.Config
	Pool       *pgxpool.Pool
	Redis      *goredis.Client
	Mailer     *mail.Mailer
	Dispatcher *queue.Dispatcher
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	cfg := deps.Config

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(deps.Pool)
	doctorRepo := postgres.NewDoctorRepository(deps.Pool)
	slotRepo := postgres.NewSlotRepository(deps.Pool)
	appointmentRepo := postgres.NewAppointmentRepository(deps.Pool)

	// --- Ephemeral stores ---
	lockStore := redis.NewLockStore(deps.Redis)
	otpStore := redis.NewOTPStore(deps.Redis)

	// --- Services ---
	gateEnforced := cfg.OTPGateEnforcedMode()
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	doctorService := service.NewDoctorService(doctorRepo, userRepo, slotRepo, cfg.JWTSecret, cfg.JWTTTL, deps.Log)
	locker := service.NewSlotLockService(slotRepo, lockStore, cfg.LockTTL, deps.Log)
	otpService := service.NewOTPService(otpStore, deps.Mailer, userRepo, cfg.OTPLength, cfg.OTPTTL, gateEnforced, deps.Log)
	bookingService := service.NewBookingService(userRepo, slotRepo, appointmentRepo, locker, otpStore, deps.Dispatcher, gateEnforced, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	doctorHandler := handler.NewDoctorHandler(doctorService)
	bookingHandler := handler.NewBookingHandler(bookingService, otpService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/signin", authHandler.Signin)

	// --- Booking routes (authenticated) ---
	booked := v1.Group("/auth", authMiddleware)
	booked.POST("/lock-slot", bookingHandler.LockSlot)
	booked.POST("/otp/send", bookingHandler.SendOTP)
	booked.POST("/otp/verify", bookingHandler.VerifyOTP)
	booked.POST("/appointments/create", bookingHandler.CreateAppointment)
	booked.GET("/appointments", bookingHandler.ListAppointments)

	// --- Doctor routes ---
	v1.POST("/doctors/register", doctorHandler.Register)
	v1.POST("/doctors/login", doctorHandler.Login)
	v1.GET("/doctors", doctorHandler.List)
	v1.GET("/doctors/all", doctorHandler.List, authMiddleware, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/doctors/slots", doctorHandler.Slots)
	v1.POST("/doctors/slots", doctorHandler.PublishSlot, authMiddleware, middleware.RBAC(domain.RoleDoctor))

	// --- Health probes and operational surface (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Pool, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
