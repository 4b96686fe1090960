package repository

import (
	"context"
	"errors"

	"github.com/denoblevoices/ticketing/internal/models"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	// FindByTypeForUpdate acquires a row-level lock on the inventory row so
	// that concurrent purchase initiations for the same type are serialized.
	FindByTypeForUpdate(ctx context.Context, tx *gorm.DB, t models.TicketType) (*models.TicketInventory, error)
	Adjust(ctx context.Context, tx *gorm.DB, t models.TicketType, delta int) error
	All(ctx context.Context) ([]models.TicketInventory, error)
	Seed(ctx context.Context, totals map[models.TicketType]int) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FindByTypeForUpdate(ctx context.Context, tx *gorm.DB, t models.TicketType) (*models.TicketInventory, error) {
	if tx == nil {
		tx = r.db
	}
	var inv models.TicketInventory
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("ticket_type = ?", t).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepository) Adjust(ctx context.Context, tx *gorm.DB, t models.TicketType, delta int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&models.TicketInventory{}).
		Where("ticket_type = ?", t).
		Update("available", gorm.Expr("available + ?", delta)).Error
}

func (r *inventoryRepository) All(ctx context.Context) ([]models.TicketInventory, error) {
	var rows []models.TicketInventory
	if err := r.db.WithContext(ctx).Order("ticket_type ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Seed inserts missing inventory rows. Existing rows keep their counters so a
// restart never resets availability mid-sale.
func (r *inventoryRepository) Seed(ctx context.Context, totals map[models.TicketType]int) error {
	for t, total := range totals {
		var existing models.TicketInventory
		err := r.db.WithContext(ctx).Where("ticket_type = ?", t).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row := models.TicketInventory{TicketType: t, Total: total, Available: total}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
