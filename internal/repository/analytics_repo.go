package repository

import (
	"context"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"gorm.io/gorm"
)

type StatusCount struct {
	Status      models.OrderStatus `json:"status"`
	Count       int64              `json:"count"`
	TotalAmount float64            `json:"total_amount"`
}

type DailySales struct {
	Date    string  `json:"date"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type TypeSales struct {
	TicketType models.TicketType `json:"ticket_type"`
	Count      int64             `json:"count"`
	Revenue    float64           `json:"revenue"`
}

type CustomerSales struct {
	Email        string  `json:"email"`
	CustomerName string  `json:"customer_name"`
	TotalSpent   float64 `json:"total_spent"`
	TicketCount  int64   `json:"ticket_count"`
	OrderCount   int64   `json:"order_count"`
}

// AnalyticsRepository serves the read-only aggregations behind the admin
// dashboard and analytics pages. Revenue always means approved orders only.
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context) ([]StatusCount, error)
	StatusCountsSince(ctx context.Context, since time.Time) ([]StatusCount, error)
	TotalRevenue(ctx context.Context) (float64, error)
	SalesByDay(ctx context.Context, days int) ([]DailySales, error)
	SalesByType(ctx context.Context) ([]TypeSales, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerSales, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) StatusCountsSince(ctx context.Context, since time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("status = ?", models.StatusApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *analyticsRepository) SalesByDay(ctx context.Context, days int) ([]DailySales, error) {
	var rows []DailySales
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') AS date, COUNT(*) AS count, COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS revenue", models.StatusApproved).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -days)).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) SalesByType(ctx context.Context) ([]TypeSales, error) {
	var rows []TypeSales
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("ticket_type, COUNT(*) AS count, COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS revenue", models.StatusApproved).
		Group("ticket_type").
		Order("ticket_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopCustomers(ctx context.Context, limit int) ([]CustomerSales, error) {
	var rows []CustomerSales
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("email, MAX(full_name) AS customer_name, COALESCE(SUM(amount), 0) AS total_spent, COALESCE(SUM(quantity), 0) AS ticket_count, COUNT(*) AS order_count").
		Where("status = ?", models.StatusApproved).
		Group("email").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
