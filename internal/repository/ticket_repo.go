package repository

import (
	"context"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"gorm.io/gorm"
)

// TypeVerificationCount is one row of the per-type verification breakdown.
type TypeVerificationCount struct {
	TicketType models.TicketType `json:"ticket_type"`
	Total      int64             `json:"total"`
	Verified   int64             `json:"verified"`
}

type TicketRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, tickets []models.Ticket) error
	FindByID(ctx context.Context, id string) (*models.Ticket, error)
	// MarkUsed flips is_used for a fresh ticket. The conditional update makes
	// concurrent scans of the same ticket yield exactly one winner.
	MarkUsed(ctx context.Context, id, verifiedBy string, at time.Time) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountUsed(ctx context.Context) (int64, error)
	RecentVerified(ctx context.Context, limit int) ([]models.Ticket, error)
	CountByType(ctx context.Context) ([]TypeVerificationCount, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tx *gorm.DB, tickets []models.Ticket) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(&tickets).Error
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) MarkUsed(ctx context.Context, id, verifiedBy string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]any{
			"is_used":     true,
			"used_at":     at,
			"verified_by": verifiedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Ticket{}).Count(&count).Error
	return count, err
}

func (r *ticketRepository) CountUsed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("is_used = ?", true).
		Count(&count).Error
	return count, err
}

func (r *ticketRepository) RecentVerified(ctx context.Context, limit int) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("is_used = ?", true).
		Order("used_at DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) CountByType(ctx context.Context) ([]TypeVerificationCount, error) {
	var rows []TypeVerificationCount
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("ticket_type, COUNT(*) AS total, SUM(CASE WHEN is_used THEN 1 ELSE 0 END) AS verified").
		Group("ticket_type").
		Order("ticket_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
