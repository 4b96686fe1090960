//go:build integration

package integration

import (
	"fmt"
	"sync"
	"testing"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueTickets(t *testing.T, qty int) []string {
	t.Helper()
	seedInventory(t, map[models.TicketType]int{models.TypeRegular: 500})
	svc := newPaymentService()

	order, _, err := svc.InitiatePurchase(t.Context(), service.PurchaseInput{
		TicketType: models.TypeRegular,
		Quantity:   qty,
		FullName:   "Ada Obi",
		Email:      "ada@example.com",
	})
	require.NoError(t, err)
	_, err = svc.MarkTransferCompleted(t.Context(), order.Reference)
	require.NoError(t, err)
	_, ticketIDs, err := svc.ApprovePayment(t.Context(), order.Reference, "DNCV-0001")
	require.NoError(t, err)
	return ticketIDs
}

// 15 gate scanners race on one ticket → exactly one admission.
func TestConcurrentVerification_SingleAdmission(t *testing.T) {
	cleanTables()
	ticketIDs := issueTickets(t, 1)
	svc := service.NewVerificationService(repository.NewTicketRepository(testDB))

	const scanners = 15
	var wg sync.WaitGroup
	errs := make(chan error, scanners)

	wg.Add(scanners)
	for i := 0; i < scanners; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := svc.VerifyTicket(t.Context(), ticketIDs[0], fmt.Sprintf("DNCV-%04d", n+1))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var admitted, replayed int
	for err := range errs {
		if err == nil {
			admitted++
			continue
		}
		var used *service.AlreadyUsedError
		require.ErrorAs(t, err, &used)
		replayed++
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, scanners-1, replayed)

	var ticket models.Ticket
	require.NoError(t, testDB.First(&ticket, "id = ?", ticketIDs[0]).Error)
	assert.True(t, ticket.IsUsed)
	assert.NotNil(t, ticket.UsedAt)
}

func TestVerification_RescanKeepsOriginalRecord(t *testing.T) {
	cleanTables()
	ticketIDs := issueTickets(t, 1)
	svc := service.NewVerificationService(repository.NewTicketRepository(testDB))

	_, err := svc.VerifyTicket(t.Context(), ticketIDs[0], "DNCV-0002")
	require.NoError(t, err)

	var first models.Ticket
	require.NoError(t, testDB.First(&first, "id = ?", ticketIDs[0]).Error)

	_, err = svc.VerifyTicket(t.Context(), ticketIDs[0], "DNCV-0003")
	var used *service.AlreadyUsedError
	require.ErrorAs(t, err, &used)
	assert.Equal(t, "DNCV-0002", used.VerifiedBy)

	var second models.Ticket
	require.NoError(t, testDB.First(&second, "id = ?", ticketIDs[0]).Error)
	assert.Equal(t, first.VerifiedBy, second.VerifiedBy)
	assert.Equal(t, first.UsedAt.UTC(), second.UsedAt.UTC())
}

func TestVerificationStats(t *testing.T) {
	cleanTables()
	ticketIDs := issueTickets(t, 4)
	svc := service.NewVerificationService(repository.NewTicketRepository(testDB))

	_, err := svc.VerifyTicket(t.Context(), ticketIDs[0], "DNCV-0002")
	require.NoError(t, err)

	stats, err := svc.Stats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Summary.TotalTickets)
	assert.Equal(t, int64(1), stats.Summary.TotalVerified)
	assert.InDelta(t, 25.0, stats.Summary.VerificationPercentage, 0.01)
	require.Len(t, stats.RecentVerifications, 1)
	assert.Equal(t, ticketIDs[0], stats.RecentVerifications[0].TicketID)
}
