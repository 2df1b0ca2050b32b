package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rvaldez/rentora-api/docs" // Swagger docs
	"github.com/rvaldez/rentora-api/internal/config"
	"github.com/rvaldez/rentora-api/internal/database"
	"github.com/rvaldez/rentora-api/internal/handlers"
	"github.com/rvaldez/rentora-api/internal/jobs"
	"github.com/rvaldez/rentora-api/internal/middleware"
	"github.com/rvaldez/rentora-api/internal/repository"
	"github.com/rvaldez/rentora-api/internal/services"
	"github.com/rvaldez/rentora-api/internal/storage"
	"github.com/rvaldez/rentora-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Rentora API
// @version 1.0
// @description REST API for Rentora Property Management System

// @contact.name API Support
// @contact.email support@rentora.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database schema up to date")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Start the monthly invoice cron when enabled
	var invoiceCron *jobs.InvoiceCron
	if cfg.InvoiceCronEnabled {
		invoiceCron, err = jobs.NewInvoiceCron(cfg.InvoiceCronSchedule, func(ctx context.Context) error {
			result, err := svcs.Invoice.GenerateCurrentMonth(ctx)
			if err != nil {
				return err
			}
			logger.Info("[InvoiceCron] Run finished",
				"period", result.Period,
				"scanned", result.Scanned,
				"created", result.Created,
				"skipped", result.Skipped,
			)
			return nil
		})
		if err != nil {
			logger.Error("Failed to start invoice cron", "error", err)
			os.Exit(1)
		}
		invoiceCron.Start()
		logger.Info("Invoice cron started", "schedule", cfg.InvoiceCronSchedule)
	}

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop the invoice cron, waiting for a running generation to finish
	if invoiceCron != nil {
		invoiceCron.Stop()
		logger.Info("Invoice cron stopped")
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				admin.POST("/invoices/generate", h.Invoice.Generate)

				admin.GET("/audit", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Admin + Owner routes (managing properties and tenancies)
			adminOwner := protected.Group("")
			adminOwner.Use(middleware.RequireAdminOrOwnerRole())
			{
				adminOwner.GET("/users", h.User.Index)
				adminOwner.POST("/users", h.User.Create)

				adminOwner.POST("/properties", h.Property.Create)
				adminOwner.PUT("/properties/:property_id", h.Property.Update)
				adminOwner.DELETE("/properties/:property_id", h.Property.Delete)
				adminOwner.POST("/properties/:property_id/photo", h.Property.UploadPhoto)
				adminOwner.POST("/properties/:property_id/units", h.Property.CreateUnit)
				adminOwner.PUT("/properties/:property_id/units/:unit_id", h.Property.UpdateUnit)
				adminOwner.DELETE("/properties/:property_id/units/:unit_id", h.Property.DeleteUnit)

				// Tenancy lifecycle
				adminOwner.POST("/move-in/:property_id/:unit_id", h.Lease.MoveIn)
				adminOwner.PUT("/move-in/leases/:lease_id", h.Lease.Update)
				adminOwner.POST("/move-in/leases/:lease_id/move-out", h.Lease.MoveOut)
				adminOwner.GET("/move-in/units/:unit_id/lease-history", h.Lease.History)
				adminOwner.POST("/move-in/leases/:lease_id/documents", h.Lease.UploadDocument)

				adminOwner.GET("/reports/rent-roll", h.Report.RentRoll)
			}

			// Profile update: admin or the profile owner (checked in the service)
			protected.PUT("/users/:user_id", h.User.Update)
			protected.GET("/users/:user_id", h.User.Show)
			protected.PATCH("/users/:user_id/change_password", middleware.RequireAdminOrSelf(), h.User.ChangePassword)

			// Property browsing (tenants see the property they rent in)
			protected.GET("/properties", h.Property.Index)
			protected.GET("/properties/:property_id", h.Property.Show)
			protected.GET("/properties/:property_id/units", h.Property.ListUnits)

			// Leases (tenants see their own, owners their properties')
			protected.GET("/move-in/leases", h.Lease.Index)
			protected.GET("/move-in/leases/:lease_id", h.Lease.Show)
			protected.GET("/move-in/agreement/:lease_id", h.Lease.DownloadAgreement)

			// Payments
			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/:payment_id", h.Payment.Show)
			protected.POST("/payments/:payment_id/confirm", h.Payment.Confirm)
			protected.POST("/payments/:payment_id/fail", h.Payment.Fail)
			protected.POST("/payments/:payment_id/retry", h.Payment.Retry)

			// Invoices
			protected.GET("/invoices", h.Invoice.Index)
			protected.GET("/invoices/:invoice_id", h.Invoice.Show)

			// Tenant statements (tenants download their own)
			protected.GET("/reports/statement/:tenant_id", h.Report.TenantStatement)

			// Notifications (users manage their own)
			// Static route first so "read_all" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read_all", h.Notification.MarkAllRead)
				notifications.POST("/:notification_id/read", h.Notification.MarkRead)
				notifications.DELETE("/:notification_id", h.Notification.Destroy)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Expire leases whose end date has passed, once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Expiring ended leases...")
		expired, err := svcs.Lease.ExpireLeases(ctx)
		if err != nil {
			return err
		}
		if expired > 0 {
			logger.Info("[Job] Leases expired", "count", expired)
		}
		return nil
	})

	// Check overdue payments every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue payments...")
		notified, err := svcs.Payment.CheckOverduePayments(ctx)
		if err != nil {
			return err
		}
		if notified > 0 {
			logger.Info("[Job] Overdue reminders sent", "count", notified)
		}
		return nil
	})

	// Daily rent due reminder emails
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending rent due reminders...")
		_, err := svcs.Payment.SendDueReminders(ctx)
		return err
	})

	// Flip unpaid invoices past their due date to overdue, every 6 hours
	worker.ScheduleEvery(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Marking overdue invoices...")
		marked, err := svcs.Invoice.MarkOverdueInvoices(ctx)
		if err != nil {
			return err
		}
		if marked > 0 {
			logger.Info("[Job] Invoices marked overdue", "count", marked)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
