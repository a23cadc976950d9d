package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/campushq/campus-records/internal/cache"
	"github.com/campushq/campus-records/internal/config"
	"github.com/campushq/campus-records/internal/database"
	"github.com/campushq/campus-records/internal/handlers"
	"github.com/campushq/campus-records/internal/identity"
	"github.com/campushq/campus-records/internal/middleware"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
	"github.com/campushq/campus-records/internal/services"
	"github.com/campushq/campus-records/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Campus Records")

	if cfg.Tenant.DefaultTenantID == uuid.Nil {
		log.Warn().Msg("DEFAULT_TENANT_ID not set; fallback sessions will carry no tenant and their data access will be denied")
	}

	// Connect to database
	db, err := database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	// Initialize profile cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis profile cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory profile cache initialized")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Identity resolution
	resolver := identity.NewResolver(userRepo, auditRepo, cacheImpl,
		identity.TenantResolver{Default: cfg.Tenant.DefaultTenantID},
		cfg.Cache.ProfileTTL,
	)

	// Initialize services
	userService := services.NewUserService(userRepo, resolver)
	tenantService := services.NewTenantService(tenantRepo)
	appointmentService := services.NewAppointmentService(db)
	planService := services.NewPlanService(db)
	reportService := services.NewReportService(db, services.PlaceholderGenerator{})

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	meHandler := handlers.NewMeHandler()
	userHandler := handlers.NewUserHandler(userService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	noteHandler := handlers.NewNoteHandler(noteRepo)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	planHandler := handlers.NewPlanHandler(planService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// API (session required; per-route role requirements)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Auth.JWTSecret, resolver))

		r.Get("/me", meHandler.Get)

		// Admin: user management, tenant registry, audit log
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/users", userHandler.List)
			r.Post("/users", userHandler.Create)
			r.Get("/users/{id}", userHandler.Get)
			r.Patch("/users/{id}", userHandler.Update)
			r.Put("/users/{id}/status", userHandler.SetStatus)

			r.Get("/tenants", tenantHandler.List)
			r.Post("/tenants", tenantHandler.Create)
			r.Get("/tenants/{id}", tenantHandler.Get)
			r.Patch("/tenants/{id}", tenantHandler.Update)

			r.Get("/audit", auditHandler.List)
			r.Get("/audit/stats", auditHandler.Stats)
		})

		// Appointments: any signed-in role
		r.Get("/appointments", appointmentHandler.List)
		r.Post("/appointments", appointmentHandler.Create)
		r.Get("/appointments/{id}", appointmentHandler.Get)
		r.Put("/appointments/{id}/status", appointmentHandler.SetStatus)

		// Remaining collections are gated by the same capability sets the
		// /me endpoint advertises.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEntityKind("student_note"))

			r.Get("/notes", noteHandler.List)
			r.Post("/notes", noteHandler.Create)
			r.Get("/notes/{id}", noteHandler.Get)
			r.Patch("/notes/{id}", noteHandler.Update)
			r.Delete("/notes/{id}", noteHandler.Delete)
			r.Get("/students/{studentID}/notes", noteHandler.ListForStudent)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEntityKind("intervention_plan"))

			r.Get("/plans", planHandler.List)
			r.Post("/plans", planHandler.Create)
			r.Get("/plans/{id}", planHandler.Get)
			r.Patch("/plans/{id}", planHandler.Update)
			r.Put("/plans/{id}/goals", planHandler.SetGoalStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEntityKind("report_definition"))

			r.Get("/reports", reportHandler.List)
			r.Post("/reports", reportHandler.Create)
			r.Get("/reports/{id}", reportHandler.Get)
			r.Post("/reports/{id}/run", reportHandler.Run)
			r.Get("/reports/{id}/results", reportHandler.ListResults)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
