package models

import "time"

type TicketType string

const (
	TypeStudent   TicketType = "student"
	TypeRegular   TicketType = "regular"
	TypeVIPSingle TicketType = "vip-single"
	TypeVIPCouple TicketType = "vip-couple"
	TypeTable     TicketType = "table"
)

// TicketTypes lists every sellable type, in display order.
var TicketTypes = []TicketType{TypeStudent, TypeRegular, TypeVIPSingle, TypeVIPCouple, TypeTable}

func (t TicketType) Valid() bool {
	switch t {
	case TypeStudent, TypeRegular, TypeVIPSingle, TypeVIPCouple, TypeTable:
		return true
	}
	return false
}

func (t TicketType) DisplayName() string {
	switch t {
	case TypeStudent:
		return "Student Ticket"
	case TypeRegular:
		return "Regular Ticket"
	case TypeVIPSingle:
		return "VIP Single"
	case TypeVIPCouple:
		return "VIP Couple"
	case TypeTable:
		return "Table Booking"
	}
	return string(t)
}

type OrderStatus string

const (
	StatusInitiated      OrderStatus = "initiated"
	StatusTransferMarked OrderStatus = "transfer_marked"
	StatusApproved       OrderStatus = "approved"
	StatusRejected       OrderStatus = "rejected"
)

// PurchaseOrder is one ticket purchase. Status only ever moves forward:
// initiated -> transfer_marked -> approved|rejected. Orders are never deleted;
// rejected and approved rows stay around for analytics.
type PurchaseOrder struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Reference       string      `gorm:"uniqueIndex;size:32;not null" json:"reference"`
	FullName        string      `gorm:"not null" json:"full_name"`
	Email           string      `gorm:"index;not null" json:"email"`
	Phone           string      `json:"phone"`
	TicketType      TicketType  `gorm:"type:varchar(20);not null" json:"ticket_type"`
	Quantity        int         `gorm:"not null" json:"quantity"`
	UnitPrice       float64     `gorm:"not null" json:"unit_price"`
	Amount          float64     `gorm:"not null" json:"amount"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'initiated'" json:"status"`
	TransferMarkedAt *time.Time `json:"transfer_marked_at,omitempty"`
	DecidedAt       *time.Time  `json:"decided_at,omitempty"`
	DecidedBy       string      `json:"decided_by,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TicketInventory tracks remaining availability per ticket type. Available is
// decremented when an order is initiated and restored if it is rejected.
type TicketInventory struct {
	TicketType TicketType `gorm:"primaryKey;type:varchar(20)" json:"ticket_type"`
	Total      int        `gorm:"not null" json:"total"`
	Available  int        `gorm:"not null" json:"available"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
