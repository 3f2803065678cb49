package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/application/service"
	"github.com/hrsuite/requisition-flow/internal/config"
	"github.com/hrsuite/requisition-flow/internal/domain/event"
	"github.com/hrsuite/requisition-flow/internal/email"
	"github.com/hrsuite/requisition-flow/internal/export"
	"github.com/hrsuite/requisition-flow/internal/infrastructure/persistence/repository"
	"github.com/hrsuite/requisition-flow/internal/infrastructure/persistence/sqlite"
	"github.com/hrsuite/requisition-flow/internal/infrastructure/worker"
	httpiface "github.com/hrsuite/requisition-flow/internal/interfaces/http"
	"github.com/hrsuite/requisition-flow/pkg/database"
	"github.com/hrsuite/requisition-flow/pkg/utils"
)

func main() {
	// .env for local development; ignored when absent
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting personnel requisition service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories and transaction scope
	txManager := sqlite.NewDB(db.DB, logger)
	requisitionRepo := repository.NewRequisitionRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	referenceRepo := repository.NewReferenceRepository(db.DB, logger)

	svcLogger := &utils.ZapAdapter{Logger: logger}
	workers := worker.NewManager(logger)

	// Notification pipeline; disabled when no SMTP relay is configured
	var publisher port.NoticePublisher
	if cfg.NotificationsEnabled() {
		mailer := email.NewSender(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
		}, logger)

		notifier := service.NewNotificationService(requisitionRepo, mailer, service.RecipientLists{
			HR:      cfg.Notification.HRRecipients,
			Payroll: cfg.Notification.PayrollRecipients,
			VP:      cfg.Notification.VPRecipients,
		}, svcLogger)

		notificationWorker := worker.NewNotificationWorker(worker.NotificationWorkerConfig{
			QueueSize:       cfg.Notification.QueueSize,
			DeliveryTimeout: cfg.Notification.DeliveryTimeout,
		}, notifier, logger)
		workers.Register(notificationWorker)
		publisher = notificationWorker
	} else {
		logger.Warn("SMTP relay not configured, notifications disabled")
		publisher = dropPublisher{logger: logger}
	}

	requisitionService := service.NewRequisitionService(
		requisitionRepo, historyRepo, referenceRepo, txManager, publisher, svcLogger)
	referenceService := service.NewReferenceService(referenceRepo, svcLogger)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, requisitionService, referenceService, export.NewExcelExporter(logger), svcLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server error", zap.Error(err))
	}

	if err := workers.StopAll(); err != nil {
		logger.Error("Failed to stop workers", zap.Error(err))
	}

	logger.Info("Server exited")
}

// dropPublisher discards notices when the notification pipeline is disabled
type dropPublisher struct {
	logger *zap.Logger
}

func (p dropPublisher) Publish(notice *event.TransitionNotice) {
	p.logger.Debug("Notice dropped, notifications disabled",
		zap.String("requisition_id", notice.RequisitionID),
		zap.String("to_state", notice.ToState))
}
