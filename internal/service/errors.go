package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidTicketType     = errors.New("invalid ticket type")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrInsufficientInventory = errors.New("insufficient inventory for ticket type")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrInvalidAdminID        = errors.New("invalid admin id format")
	ErrAdminNotFound         = errors.New("admin not found")
	ErrAdminInactive         = errors.New("admin account is deactivated")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidPermission     = errors.New("invalid permission")
)

// AlreadyUsedError reports a verification replay. It carries the original
// admission so gate staff can see who let the ticket in and when.
type AlreadyUsedError struct {
	UsedAt     time.Time
	VerifiedBy string
}

func (e *AlreadyUsedError) Error() string {
	return fmt.Sprintf("ticket already used at %s by %s", e.UsedAt.Format(time.RFC3339), e.VerifiedBy)
}
