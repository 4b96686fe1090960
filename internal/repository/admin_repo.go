package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminAccount) error
	FindByID(ctx context.Context, adminID string) (*models.AdminAccount, error)
	Update(ctx context.Context, admin *models.AdminAccount) error
	List(ctx context.Context) ([]models.AdminAccount, error)
	RecordLogin(ctx context.Context, adminID string, at time.Time) error
	NextAdminID(ctx context.Context) (string, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.AdminAccount) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) FindByID(ctx context.Context, adminID string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	if err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Update(ctx context.Context, admin *models.AdminAccount) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepository) List(ctx context.Context) ([]models.AdminAccount, error) {
	var admins []models.AdminAccount
	if err := r.db.WithContext(ctx).Order("admin_id ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepository) RecordLogin(ctx context.Context, adminID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminAccount{}).
		Where("admin_id = ?", adminID).
		Updates(map[string]any{
			"last_login":  at,
			"login_count": gorm.Expr("login_count + 1"),
		}).Error
}

// NextAdminID allocates the next DNCV-#### identifier from the highest
// existing suffix.
func (r *adminRepository) NextAdminID(ctx context.Context) (string, error) {
	var last models.AdminAccount
	err := r.db.WithContext(ctx).Order("admin_id DESC").First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "DNCV-0001", nil
		}
		return "", err
	}

	suffix := strings.TrimPrefix(last.AdminID, "DNCV-")
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("malformed admin id %q: %w", last.AdminID, err)
	}
	return fmt.Sprintf("DNCV-%04d", n+1), nil
}
