//go:build integration

package integration

import (
	"sync"
	"testing"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInventory(t *testing.T, totals map[models.TicketType]int) {
	t.Helper()
	require.NoError(t, repository.NewInventoryRepository(testDB).Seed(t.Context(), totals))
}

func newPaymentService() service.PaymentService {
	return service.NewPaymentService(
		repository.NewOrderRepository(testDB),
		repository.NewInventoryRepository(testDB),
		repository.NewTicketRepository(testDB),
		nil,
		service.BankDetails{BankName: "Access Bank Plc"},
		nil,
	)
}

func availableFor(t *testing.T, typ models.TicketType) int {
	t.Helper()
	var inv models.TicketInventory
	require.NoError(t, testDB.First(&inv, "ticket_type = ?", typ).Error)
	return inv.Available
}

// 30 buyers race for 20 tables → exactly 20 orders, inventory never negative.
func TestConcurrentPurchase_NoOversell(t *testing.T) {
	cleanTables()
	seedInventory(t, map[models.TicketType]int{models.TypeTable: 20})
	svc := newPaymentService()

	const buyers = 30
	var wg sync.WaitGroup
	errs := make(chan error, buyers)

	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			_, _, err := svc.InitiatePurchase(t.Context(), service.PurchaseInput{
				TicketType: models.TypeTable,
				Quantity:   1,
				FullName:   "Concurrent Buyer",
				Email:      "buyer@example.com",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var sold, refused int
	for err := range errs {
		if err == nil {
			sold++
		} else {
			assert.ErrorIs(t, err, service.ErrInsufficientInventory)
			refused++
		}
	}
	assert.Equal(t, 20, sold)
	assert.Equal(t, 10, refused)
	assert.Equal(t, 0, availableFor(t, models.TypeTable))

	var count int64
	testDB.Model(&models.PurchaseOrder{}).Count(&count)
	assert.Equal(t, int64(20), count)
}

func TestFullPaymentLifecycle(t *testing.T) {
	cleanTables()
	seedInventory(t, map[models.TicketType]int{models.TypeRegular: 500})
	svc := newPaymentService()

	order, bank, err := svc.InitiatePurchase(t.Context(), service.PurchaseInput{
		TicketType: models.TypeRegular,
		Quantity:   2,
		FullName:   "Ada Obi",
		Email:      "ada@example.com",
		Phone:      "+2348012345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "Access Bank Plc", bank.BankName)
	assert.Equal(t, float64(10000), order.Amount)
	assert.Equal(t, 498, availableFor(t, models.TypeRegular))

	marked, err := svc.MarkTransferCompleted(t.Context(), order.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTransferMarked, marked.Status)

	approved, ticketIDs, err := svc.ApprovePayment(t.Context(), order.Reference, "DNCV-0001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.Len(t, ticketIDs, 2)

	var tickets []models.Ticket
	require.NoError(t, testDB.Find(&tickets, "reference = ?", order.Reference).Error)
	assert.Len(t, tickets, 2)
	for _, tk := range tickets {
		assert.False(t, tk.IsUsed)
		assert.Equal(t, "Ada Obi", tk.CustomerName)
	}

	// Approved orders keep their reservation.
	assert.Equal(t, 498, availableFor(t, models.TypeRegular))
}

func TestRejection_ReleasesInventory(t *testing.T) {
	cleanTables()
	seedInventory(t, map[models.TicketType]int{models.TypeVIPCouple: 50})
	svc := newPaymentService()

	order, _, err := svc.InitiatePurchase(t.Context(), service.PurchaseInput{
		TicketType: models.TypeVIPCouple,
		Quantity:   3,
		FullName:   "Ada Obi",
		Email:      "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 47, availableFor(t, models.TypeVIPCouple))

	_, err = svc.MarkTransferCompleted(t.Context(), order.Reference)
	require.NoError(t, err)

	rejected, err := svc.RejectPayment(t.Context(), order.Reference, "DNCV-0001", "no transfer received")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, 50, availableFor(t, models.TypeVIPCouple))

	// No tickets for a rejected order.
	var count int64
	testDB.Model(&models.Ticket{}).Where("reference = ?", order.Reference).Count(&count)
	assert.Equal(t, int64(0), count)
}

// Approve and reject race on the same order → one wins, the other conflicts.
func TestConcurrentDecision_SingleWinner(t *testing.T) {
	cleanTables()
	seedInventory(t, map[models.TicketType]int{models.TypeStudent: 300})
	svc := newPaymentService()

	order, _, err := svc.InitiatePurchase(t.Context(), service.PurchaseInput{
		TicketType: models.TypeStudent,
		Quantity:   1,
		FullName:   "Ada Obi",
		Email:      "ada@example.com",
	})
	require.NoError(t, err)
	_, err = svc.MarkTransferCompleted(t.Context(), order.Reference)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, err := svc.ApprovePayment(t.Context(), order.Reference, "DNCV-0001")
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.RejectPayment(t.Context(), order.Reference, "DNCV-0002", "duplicate")
		errs <- err
	}()
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, service.ErrInvalidTransition)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	var final models.PurchaseOrder
	require.NoError(t, testDB.First(&final, "reference = ?", order.Reference).Error)
	assert.Contains(t, []models.OrderStatus{models.StatusApproved, models.StatusRejected}, final.Status)

	// Inventory reflects whichever decision won: 300 if rejected, 299 if approved.
	avail := availableFor(t, models.TypeStudent)
	if final.Status == models.StatusApproved {
		assert.Equal(t, 299, avail)
	} else {
		assert.Equal(t, 300, avail)
	}
}

func TestRepeatedTransferAttestation_Conflicts(t *testing.T) {
	cleanTables()
	seedInventory(t, map[models.TicketType]int{models.TypeStudent: 300})
	svc := newPaymentService()

	order, _, err := svc.InitiatePurchase(t.Context(), service.PurchaseInput{
		TicketType: models.TypeStudent,
		Quantity:   1,
		FullName:   "Ada Obi",
		Email:      "ada@example.com",
	})
	require.NoError(t, err)

	_, err = svc.MarkTransferCompleted(t.Context(), order.Reference)
	require.NoError(t, err)

	_, err = svc.MarkTransferCompleted(t.Context(), order.Reference)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}
