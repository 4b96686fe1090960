package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/monitoring"
	"github.com/denoblevoices/ticketing/internal/repository"
	"gorm.io/gorm"
)

const recentVerificationLimit = 10

type VerificationResult struct {
	TicketID     string            `json:"ticket_id"`
	CustomerName string            `json:"customer_name"`
	TicketType   models.TicketType `json:"ticket_type"`
	VerifiedAt   time.Time         `json:"verified_at"`
}

type VerificationSummary struct {
	TotalVerified          int64   `json:"total_verified"`
	TotalTickets           int64   `json:"total_tickets"`
	VerificationPercentage float64 `json:"verification_percentage"`
}

type RecentVerification struct {
	TicketID     string            `json:"ticket_id"`
	CustomerName string            `json:"customer_name"`
	TicketType   models.TicketType `json:"ticket_type"`
	VerifiedAt   time.Time         `json:"verified_at"`
	VerifiedBy   string            `json:"verified_by"`
}

type TypeVerificationStats struct {
	TicketType models.TicketType `json:"ticket_type"`
	Name       string            `json:"name"`
	Total      int64             `json:"total"`
	Verified   int64             `json:"verified"`
	Percentage float64           `json:"percentage"`
}

type VerificationStats struct {
	Summary             VerificationSummary     `json:"summary"`
	RecentVerifications []RecentVerification    `json:"recent_verifications"`
	ByTicketType        []TypeVerificationStats `json:"by_ticket_type"`
}

type VerificationService interface {
	VerifyTicket(ctx context.Context, ticketID, verifiedBy string) (*VerificationResult, error)
	Stats(ctx context.Context) (*VerificationStats, error)
}

type verificationService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

func NewVerificationService(tickets repository.TicketRepository) VerificationService {
	return &verificationService{tickets: tickets, now: time.Now}
}

func (s *verificationService) VerifyTicket(ctx context.Context, ticketID, verifiedBy string) (*VerificationResult, error) {
	if ticketID == "" {
		return nil, ErrTicketNotFound
	}

	verifiedAt := s.now()
	won, err := s.tickets.MarkUsed(ctx, ticketID, verifiedBy, verifiedAt)
	if err != nil {
		return nil, err
	}

	if !won {
		// Nothing updated: the ID is unknown, or the ticket was already used.
		// Garbage QR payloads land in the first bucket and read as NotFound.
		ticket, err := s.tickets.FindByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				monitoring.TicketVerification("not_found")
				return nil, ErrTicketNotFound
			}
			return nil, err
		}
		monitoring.TicketVerification("already_used")
		used := &AlreadyUsedError{VerifiedBy: ticket.VerifiedBy}
		if ticket.UsedAt != nil {
			used.UsedAt = *ticket.UsedAt
		}
		return nil, used
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	monitoring.TicketVerification("admitted")
	return &VerificationResult{
		TicketID:     ticket.ID,
		CustomerName: ticket.CustomerName,
		TicketType:   ticket.TicketType,
		VerifiedAt:   verifiedAt,
	}, nil
}

func (s *verificationService) Stats(ctx context.Context) (*VerificationStats, error) {
	total, err := s.tickets.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	used, err := s.tickets.CountUsed(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.tickets.RecentVerified(ctx, recentVerificationLimit)
	if err != nil {
		return nil, err
	}
	recentOut := make([]RecentVerification, len(recent))
	for i, t := range recent {
		rv := RecentVerification{
			TicketID:     t.ID,
			CustomerName: t.CustomerName,
			TicketType:   t.TicketType,
			VerifiedBy:   t.VerifiedBy,
		}
		if t.UsedAt != nil {
			rv.VerifiedAt = *t.UsedAt
		}
		recentOut[i] = rv
	}

	byType, err := s.tickets.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	typeOut := make([]TypeVerificationStats, len(byType))
	for i, row := range byType {
		typeOut[i] = TypeVerificationStats{
			TicketType: row.TicketType,
			Name:       row.TicketType.DisplayName(),
			Total:      row.Total,
			Verified:   row.Verified,
			Percentage: percentage(row.Verified, row.Total),
		}
	}

	return &VerificationStats{
		Summary: VerificationSummary{
			TotalVerified:          used,
			TotalTickets:           total,
			VerificationPercentage: percentage(used, total),
		},
		RecentVerifications: recentOut,
		ByTicketType:        typeOut,
	}, nil
}

// percentage rounds to one decimal place.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
