package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/auth"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/config"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/logger"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/notification"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/storage"
	"github.com/kincat201/syncargo-be-sub000/internal/interfaces/http/handler"
	"github.com/kincat201/syncargo-be-sub000/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Syncargo Finance",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Outbound adapters
	var fileStorage appfinance.FileStorage
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3FileStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize file storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		fileStorage = s3Storage
	} else {
		log.Warn("No storage credentials configured, using in-memory file storage")
		fileStorage = storage.NewMemoryFileStorage()
	}

	notifier := notification.NewLogNotifier(log)
	mailer := notification.NewLogMailer(&cfg.Mail, log)
	events := notification.NewLogEventPublisher(log)

	// Repositories and services
	scope := persistence.NewGormTransactionScope(db.DB)
	partners := persistence.NewGormPartnerDirectory(db.DB)

	payableService := appfinance.NewPayableService(scope, fileStorage, notifier, mailer, events, partners, log)
	receivableService := appfinance.NewReceivableService(scope, fileStorage, notifier, mailer, events, partners, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine, err := router.New(cfg, log, db, jwtService, router.Handlers{
		Payable:    handler.NewPayableHandler(payableService),
		Receivable: handler.NewReceivableHandler(receivableService),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
