package database

import (
	"context"
	"errors"
	"log"

	"github.com/denoblevoices/ticketing/config"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"gorm.io/gorm"
)

// Seed creates the inventory rows and the bootstrap super-admin if they do
// not exist yet. Safe to run on every start.
func Seed(db *gorm.DB, cfg *config.Config) error {
	ctx := context.Background()

	inventory := repository.NewInventoryRepository(db)
	if err := inventory.Seed(ctx, map[models.TicketType]int{
		models.TypeStudent:   cfg.InventoryStudent,
		models.TypeRegular:   cfg.InventoryRegular,
		models.TypeVIPSingle: cfg.InventoryVIPSingle,
		models.TypeVIPCouple: cfg.InventoryVIPCouple,
		models.TypeTable:     cfg.InventoryTable,
	}); err != nil {
		return err
	}

	admins := repository.NewAdminRepository(db)
	_, err := admins.FindByID(ctx, cfg.SuperAdminID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	log.Printf("[Seed] creating bootstrap super-admin %s", cfg.SuperAdminID)
	return admins.Create(ctx, &models.AdminAccount{
		AdminID: cfg.SuperAdminID,
		Name:    cfg.SuperAdminName,
		Role:    models.RoleSuperAdmin,
		Active:  true,
	})
}
