package service

import (
	"context"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
)

const (
	analyticsWindowDays = 30
	topCustomerLimit    = 10
)

type DashboardStats struct {
	PendingPayments  int64                    `json:"pending_payments"`
	ApprovedPayments int64                    `json:"approved_payments"`
	RejectedPayments int64                    `json:"rejected_payments"`
	TotalRevenue     float64                  `json:"total_revenue"`
	TodayStats       []repository.StatusCount `json:"today_stats"`
}

type AnalyticsReport struct {
	SalesOverTime             []repository.DailySales    `json:"sales_over_time"`
	TicketTypeDistribution    []repository.TypeSales     `json:"ticket_type_distribution"`
	PaymentStatusDistribution []repository.StatusCount   `json:"payment_status_distribution"`
	TopCustomers              []repository.CustomerSales `json:"top_customers"`
}

// AnalyticsService is read-only aggregation over the order collection; it
// never mutates anything.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Report(ctx context.Context) (*AnalyticsReport, error)
}

type analyticsService struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

func NewAnalyticsService(analytics repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analytics: analytics, now: time.Now}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.analytics.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{}
	for _, row := range counts {
		switch row.Status {
		case models.StatusTransferMarked:
			stats.PendingPayments = row.Count
		case models.StatusApproved:
			stats.ApprovedPayments = row.Count
			stats.TotalRevenue = row.TotalAmount
		case models.StatusRejected:
			stats.RejectedPayments = row.Count
		}
	}

	midnight := s.now().Truncate(24 * time.Hour)
	today, err := s.analytics.StatusCountsSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	stats.TodayStats = today

	return stats, nil
}

func (s *analyticsService) Report(ctx context.Context) (*AnalyticsReport, error) {
	sales, err := s.analytics.SalesByDay(ctx, analyticsWindowDays)
	if err != nil {
		return nil, err
	}
	byType, err := s.analytics.SalesByType(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.analytics.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.analytics.TopCustomers(ctx, topCustomerLimit)
	if err != nil {
		return nil, err
	}

	return &AnalyticsReport{
		SalesOverTime:             sales,
		TicketTypeDistribution:    byType,
		PaymentStatusDistribution: byStatus,
		TopCustomers:              top,
	}, nil
}
