package main

import (
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/config"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/logger"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running migrations", zap.String("database", cfg.Database.DBName))

	err = db.DB.AutoMigrate(
		&models.JobSheetModel{},
		&models.PayableModel{},
		&models.PayablePriceModel{},
		&models.PayablePaymentModel{},
		&models.PayableHistoryModel{},
		&models.PayableFileModel{},
		&models.InvoiceModel{},
		&models.InvoicePriceModel{},
		&models.InvoicePaymentModel{},
		&models.InvoiceHistoryModel{},
		&models.InvoiceRevisionModel{},
		&models.PartnerModel{},
		&models.CompanyPlanModel{},
	)
	if err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migrations completed")
}
