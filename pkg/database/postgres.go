package database

import (
	"log"

	"github.com/denoblevoices/ticketing/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.PurchaseOrder{},
		&models.TicketInventory{},
		&models.Ticket{},
		&models.AdminAccount{},
		&models.NotificationRecord{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial index: the pending queue is the only hot status scan.
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_orders_pending
		ON purchase_orders (transfer_marked_at)
		WHERE status = 'transfer_marked'
	`)

	return db
}
