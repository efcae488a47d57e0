package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/app"
	"github.com/meridian-hr/meridian-hr/internal/auth"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/documents"
	"github.com/meridian-hr/meridian-hr/internal/employees"
	"github.com/meridian-hr/meridian-hr/internal/leave"
	"github.com/meridian-hr/meridian-hr/internal/observability"
	"github.com/meridian-hr/meridian-hr/internal/permissions"
	"github.com/meridian-hr/meridian-hr/internal/platform/cache"
	"github.com/meridian-hr/meridian-hr/internal/platform/db"
	"github.com/meridian-hr/meridian-hr/internal/reports"
	"github.com/meridian-hr/meridian-hr/internal/shared"
	"github.com/meridian-hr/meridian-hr/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	metrics := observability.NewMetrics()
	guard := authz.Middleware{Logger: logger}

	activityRepo := activity.NewRepository(dbpool)
	recorder := activity.NewRecorder(activityRepo, logger, metrics)
	activityService := activity.NewService(activityRepo)
	activityHandler := activity.NewHandler(logger, activityService, guard)

	permRepo := permissions.NewRepository(dbpool)
	permService := permissions.NewService(permRepo, recorder)
	permHandler := permissions.NewHandler(logger, permService, guard)

	resolver := authz.NewResolver(permService, cfg.FallbackPolicy(), logger, metrics)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, resolver, jobClient, cfg.ResetSecret, logger)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	employeeRepo := employees.NewRepository(dbpool)
	employeeService := employees.NewService(employeeRepo, recorder)
	employeeHandler := employees.NewHandler(logger, employeeService, guard)

	blobStore, err := documents.NewS3Store(ctx, documents.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		logger.Error("blob store", slog.Any("error", err))
		os.Exit(1)
	}
	documentRepo := documents.NewRepository(dbpool)
	documentService := documents.NewService(documentRepo, blobStore, recorder, logger)
	documentHandler := documents.NewHandler(logger, documentService, guard)

	leaveRepo := leave.NewRepository(dbpool)
	leaveService := leave.NewService(leaveRepo, recorder)
	leaveHandler := leave.NewHandler(logger, leaveService, guard)

	reportsService := reports.NewService(logger, employeeService, documentService, leaveService, activityService)
	reportsHandler := reports.NewHandler(logger, reportsService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		Resolver:           authService,
		AuthHandler:        authHandler,
		EmployeeHandler:    employeeHandler,
		DocumentHandler:    documentHandler,
		LeaveHandler:       leaveHandler,
		PermissionsHandler: permHandler,
		ActivityHandler:    activityHandler,
		ReportsHandler:     reportsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	recorder.Wait()
}
