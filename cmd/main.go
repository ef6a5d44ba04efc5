package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"dormdesk/internal/analytics"
	"dormdesk/internal/caching"
	"dormdesk/internal/chat"
	"dormdesk/internal/common"
	"dormdesk/internal/config"
	"dormdesk/internal/handlers"
	"dormdesk/internal/jobs/background"
	"dormdesk/internal/logger"
	"dormdesk/internal/middleware"
	"dormdesk/internal/repositories"
	"dormdesk/internal/services"
	"dormdesk/pkg/database"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLog := logger.New(cfg.Log)
	defer func() { _ = zapLog.Sync() }()

	if err := run(cfg, zapLog); err != nil {
		zapLog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = random.String(48)
		zapLog.Warn("session.secret is not set, using a generated secret; sessions will not survive a restart")
	}

	// Database
	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(cfg.Database.URL, zapLog)
		if err != nil {
			return err
		}
		err = migrator.Up()
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}
	pool, err := database.NewPool(ctx, cfg.Database, zapLog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Cache
	redisClient := caching.NewRedisClient(cfg.Redis)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)
	if err := cacheSvc.Ping(ctx); err != nil {
		zapLog.Warn("redis is unreachable, continuing without cache", zap.Error(err))
	}

	// Object storage
	storage, err := services.NewMinioStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		zapLog.Warn("failed to ensure storage bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}

	notifier := chat.NewNotifier(cfg.Chat, zapLog)

	// Repositories
	orgRepo := repositories.NewOrganizationRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	sessionRepo := repositories.NewSessionRepo(pool)
	roomRepo := repositories.NewRoomRepo(pool)
	residentRepo := repositories.NewResidentRepo(pool)
	billingRepo := repositories.NewBillingRepo(pool)
	expenseRepo := repositories.NewExpenseRepo(pool)
	recurringRepo := repositories.NewRecurringExpenseRepo(pool)
	documentRepo := repositories.NewDocumentRepo(pool)
	configRepo := repositories.NewSystemConfigRepo(pool)
	auditLogRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	auditSvc := services.NewAuditLogsService(auditLogRepo)
	rbacSvc := services.NewRBACService()
	authSvc := services.NewAuthService(userRepo, orgRepo, sessionRepo, cacheSvc, auditSvc, cfg.Session)
	orgSvc := services.NewOrganizationService(orgRepo, authSvc, auditSvc)
	userSvc := services.NewUserService(userRepo, rbacSvc, authSvc, auditSvc)
	roomSvc := services.NewRoomService(roomRepo, cacheSvc, auditSvc)
	residentSvc := services.NewResidentService(residentRepo, cacheSvc, auditSvc)
	settingsSvc := services.NewSettingsService(configRepo, auditSvc)
	notificationSvc := services.NewNotificationService(notifier)
	documentSvc := services.NewDocumentService(documentRepo, storage, auditSvc, cfg.Storage)
	billingSvc := services.NewBillingService(billingRepo, residentRepo, roomRepo, orgRepo, documentRepo,
		settingsSvc, notificationSvc, cacheSvc, auditSvc)
	expenseSvc := services.NewExpenseService(expenseRepo, documentRepo, cacheSvc, auditSvc)
	recurringSvc := services.NewRecurringExpenseService(recurringRepo, orgRepo, cacheSvc, auditSvc)
	broadcastSvc := services.NewBroadcastService(residentRepo, notificationSvc, auditSvc, cfg.Chat.BroadcastConcurrency)
	analyticsSvc := analytics.NewAnalyticsService(roomRepo, residentRepo, billingRepo, expenseRepo, cacheSvc)

	if created, err := services.EnsureSuperAdmin(ctx, userRepo, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap super admin: %w", err)
	} else if created {
		zapLog.Info("Created bootstrap super admin", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	// Background jobs
	var jobScheduler handlers.JobScheduler
	if cfg.Scheduler.Enabled {
		scheduler, err := background.NewJobScheduler(cfg.Scheduler, recurringSvc, authSvc, zapLog)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				zapLog.Warn("failed to stop scheduler", zap.Error(err))
			}
		}()
		jobScheduler = scheduler
	}

	// Middleware
	rbacMiddleware := middleware.NewRBACMiddleware(rbacSvc)
	sessionAuth := middleware.NewSessionAuth(authSvc, cfg.Session)
	auditMiddleware := middleware.NewAuditMiddleware(auditSvc)
	versionMiddleware := middleware.NewVersionMiddleware(cfg.App.Version)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	validator := common.NewRequestValidator()
	e.Validator = validator
	e.HTTPErrorHandler = handlers.ErrorHandler(validator)

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(zapLog))
	e.Use(middleware.Metrics())
	e.Use(echoMiddleware.BodyLimit(bodyLimit(cfg.Storage.MaxUploadBytes)))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, middleware.OrganizationHeader},
		AllowCredentials: true,
	}))

	handlers.NewHealthHandlers(map[string]handlers.Pinger{
		"database": pool,
		"redis":    cacheSvc,
		"storage":  storage,
	}, cfg.App.Version).RegisterRoutes(e)

	v1 := versionMiddleware.VersionRoute(e, "v1")

	public := v1.Group("")
	handlers.NewWebhookHandlers(residentSvc, notificationSvc, cfg.Chat.ChannelSecret).RegisterRoutes(public)

	protected := v1.Group("", sessionAuth.Authenticate(), auditMiddleware.AuditRequest())
	handlers.NewAuthHandlers(authSvc, cfg.Session).RegisterRoutes(public, protected)
	handlers.NewOrganizationHandlers(orgSvc, rbacMiddleware).RegisterRoutes(protected)
	handlers.NewJobHandlers(jobScheduler, rbacMiddleware).RegisterRoutes(protected)

	// everything below acts on one organization
	tenant := protected.Group("", rbacMiddleware.RequireOrganization())
	handlers.NewUserHandlers(userSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewRoomHandlers(roomSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewResidentHandlers(residentSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewBillingHandlers(billingSvc, documentSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewExpenseHandlers(expenseSvc, recurringSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewDocumentHandlers(documentSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewBroadcastHandlers(broadcastSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewSettingsHandlers(settingsSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewAuditLogsHandlers(auditSvc, rbacMiddleware).RegisterRoutes(tenant)
	handlers.NewDashboardHandlers(analyticsSvc, rbacMiddleware).RegisterRoutes(tenant)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("dormdesk server starting",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.String("addr", addr),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// bodyLimit leaves room for multipart framing around the largest allowed upload
func bodyLimit(maxUpload int64) string {
	const overhead = 1 << 20
	return fmt.Sprintf("%dK", (maxUpload+overhead)/1024)
}
