package repository

import (
	"context"

	"github.com/denoblevoices/ticketing/internal/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.PurchaseOrder) error
	FindByReference(ctx context.Context, reference string) (*models.PurchaseOrder, error)
	// UpdateStatusFrom performs a guarded status transition: the update only
	// applies while the order is still in `from`. Returns false when another
	// caller won the race (or the order already moved on).
	UpdateStatusFrom(ctx context.Context, tx *gorm.DB, reference string, from, to models.OrderStatus, updates map[string]any) (bool, error)
	ListByStatus(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.PurchaseOrder, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *orderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.PurchaseOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByReference(ctx context.Context, reference string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatusFrom(ctx context.Context, tx *gorm.DB, reference string, from, to models.OrderStatus, updates map[string]any) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to

	res := tx.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("reference = ? AND status = ?", reference, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("transfer_marked_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
