package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/monitoring"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPrices is the authoritative price table in naira. Client-supplied
// prices are never consulted.
var DefaultPrices = map[models.TicketType]float64{
	models.TypeStudent:   2000,
	models.TypeRegular:   5000,
	models.TypeVIPSingle: 25000,
	models.TypeVIPCouple: 50000,
	models.TypeTable:     200000,
}

const defaultRejectionReason = "We could not match your transfer to a payment. Please contact support."

// BankDetails are the static transfer instructions returned with every
// initiated purchase.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	SortCode      string `json:"sort_code"`
}

type PurchaseInput struct {
	TicketType models.TicketType
	Quantity   int
	Email      string
	Phone      string
	FullName   string
}

// PendingOrder decorates a transfer_marked order with how long the customer
// has been waiting, so the back office can clear the oldest first.
type PendingOrder struct {
	models.PurchaseOrder
	DaysPending int `json:"days_pending"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

type PaymentService interface {
	InitiatePurchase(ctx context.Context, in PurchaseInput) (*models.PurchaseOrder, BankDetails, error)
	MarkTransferCompleted(ctx context.Context, reference string) (*models.PurchaseOrder, error)
	ApprovePayment(ctx context.Context, reference, decidedBy string) (*models.PurchaseOrder, []string, error)
	RejectPayment(ctx context.Context, reference, decidedBy, reason string) (*models.PurchaseOrder, error)
	ListPending(ctx context.Context, page, pageSize int) ([]PendingOrder, Pagination, error)
	GetStatus(ctx context.Context, reference string) (*models.PurchaseOrder, error)
}

type paymentService struct {
	orders    repository.OrderRepository
	inventory repository.InventoryRepository
	tickets   repository.TicketRepository
	notifier  Notifier
	bank      BankDetails
	prices    map[models.TicketType]float64
	now       func() time.Time
}

func NewPaymentService(
	orders repository.OrderRepository,
	inventory repository.InventoryRepository,
	tickets repository.TicketRepository,
	notifier Notifier,
	bank BankDetails,
	prices map[models.TicketType]float64,
) PaymentService {
	if prices == nil {
		prices = DefaultPrices
	}
	return &paymentService{
		orders:    orders,
		inventory: inventory,
		tickets:   tickets,
		notifier:  notifier,
		bank:      bank,
		prices:    prices,
		now:       time.Now,
	}
}

func (s *paymentService) InitiatePurchase(ctx context.Context, in PurchaseInput) (*models.PurchaseOrder, BankDetails, error) {
	if !in.TicketType.Valid() {
		return nil, BankDetails{}, ErrInvalidTicketType
	}
	if in.Quantity < 1 {
		return nil, BankDetails{}, ErrInvalidQuantity
	}

	unitPrice, ok := s.prices[in.TicketType]
	if !ok {
		return nil, BankDetails{}, ErrInvalidTicketType
	}

	order := &models.PurchaseOrder{
		Reference:  NewReference(),
		FullName:   in.FullName,
		Email:      in.Email,
		Phone:      in.Phone,
		TicketType: in.TicketType,
		Quantity:   in.Quantity,
		UnitPrice:  unitPrice,
		Amount:     unitPrice * float64(in.Quantity),
		Status:     models.StatusInitiated,
	}

	err := s.orders.Transact(ctx, func(tx *gorm.DB) error {
		// Lock the inventory row; the check and decrement must not interleave
		// with a concurrent initiation for the same type.
		inv, err := s.inventory.FindByTypeForUpdate(ctx, tx, in.TicketType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidTicketType
			}
			return err
		}
		if inv.Available < in.Quantity {
			return ErrInsufficientInventory
		}
		if err := s.inventory.Adjust(ctx, tx, in.TicketType, -in.Quantity); err != nil {
			return err
		}
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, BankDetails{}, err
	}

	monitoring.OrderTransition(string(models.StatusInitiated))
	return order, s.bank, nil
}

func (s *paymentService) MarkTransferCompleted(ctx context.Context, reference string) (*models.PurchaseOrder, error) {
	if _, err := s.findOrder(ctx, reference); err != nil {
		return nil, err
	}

	markedAt := s.now()
	ok, err := s.orders.UpdateStatusFrom(ctx, nil, reference, models.StatusInitiated, models.StatusTransferMarked, map[string]any{
		"transfer_marked_at": markedAt,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Repeated attestations fail loudly rather than pretending to succeed;
		// the order has either already been marked or already decided.
		return nil, ErrInvalidTransition
	}

	monitoring.OrderTransition(string(models.StatusTransferMarked))
	return s.findOrder(ctx, reference)
}

func (s *paymentService) ApprovePayment(ctx context.Context, reference, decidedBy string) (*models.PurchaseOrder, []string, error) {
	order, err := s.findOrder(ctx, reference)
	if err != nil {
		return nil, nil, err
	}

	ticketIDs := make([]string, 0, order.Quantity)
	err = s.orders.Transact(ctx, func(tx *gorm.DB) error {
		ok, err := s.orders.UpdateStatusFrom(ctx, tx, reference, models.StatusTransferMarked, models.StatusApproved, map[string]any{
			"decided_at": s.now(),
			"decided_by": decidedBy,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		tickets := make([]models.Ticket, order.Quantity)
		for i := range tickets {
			id := uuid.NewString()
			tickets[i] = models.Ticket{
				ID:           id,
				OrderID:      order.ID,
				Reference:    order.Reference,
				CustomerName: order.FullName,
				TicketType:   order.TicketType,
			}
			ticketIDs = append(ticketIDs, id)
		}
		return s.tickets.CreateBatch(ctx, tx, tickets)
	})
	if err != nil {
		return nil, nil, err
	}

	monitoring.OrderTransition(string(models.StatusApproved))

	updated, err := s.findOrder(ctx, reference)
	if err != nil {
		return nil, nil, err
	}

	// Ticket delivery is best-effort; the approval stands even if the email
	// pipeline is down, and delivery is retried from the queue.
	go s.notify(TemplateTicketDelivery, updated.Email, map[string]any{
		"reference":     updated.Reference,
		"customer_name": updated.FullName,
		"ticket_type":   string(updated.TicketType),
		"quantity":      updated.Quantity,
		"ticket_ids":    ticketIDs,
	})

	return updated, ticketIDs, nil
}

func (s *paymentService) RejectPayment(ctx context.Context, reference, decidedBy, reason string) (*models.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, reference)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = defaultRejectionReason
	}

	err = s.orders.Transact(ctx, func(tx *gorm.DB) error {
		ok, err := s.orders.UpdateStatusFrom(ctx, tx, reference, models.StatusTransferMarked, models.StatusRejected, map[string]any{
			"decided_at":       s.now(),
			"decided_by":       decidedBy,
			"rejection_reason": reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		// Give the reserved tickets back to the pool.
		return s.inventory.Adjust(ctx, tx, order.TicketType, order.Quantity)
	})
	if err != nil {
		return nil, err
	}

	monitoring.OrderTransition(string(models.StatusRejected))

	updated, err := s.findOrder(ctx, reference)
	if err != nil {
		return nil, err
	}

	go s.notify(TemplateRejectionNotice, updated.Email, map[string]any{
		"reference":     updated.Reference,
		"customer_name": updated.FullName,
		"reason":        reason,
	})

	return updated, nil
}

func (s *paymentService) ListPending(ctx context.Context, page, pageSize int) ([]PendingOrder, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	total, err := s.orders.CountByStatus(ctx, models.StatusTransferMarked)
	if err != nil {
		return nil, Pagination{}, err
	}

	orders, err := s.orders.ListByStatus(ctx, models.StatusTransferMarked, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}

	now := s.now()
	pending := make([]PendingOrder, len(orders))
	for i, o := range orders {
		days := 0
		if o.TransferMarkedAt != nil {
			days = int(now.Sub(*o.TransferMarkedAt).Hours() / 24)
		}
		pending[i] = PendingOrder{PurchaseOrder: o, DaysPending: days}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return pending, Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

func (s *paymentService) GetStatus(ctx context.Context, reference string) (*models.PurchaseOrder, error) {
	return s.findOrder(ctx, reference)
}

func (s *paymentService) findOrder(ctx context.Context, reference string) (*models.PurchaseOrder, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *paymentService) notify(template, recipient string, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(template, recipient, payload); err != nil {
		monitoring.NotificationFailure()
		log.Printf("[PaymentService] failed to queue %s for %s: %v", template, recipient, err)
	}
}
