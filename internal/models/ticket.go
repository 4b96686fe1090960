package models

import "time"

// Ticket is a single-admission credential, issued only when an order is
// approved. An order of quantity N yields N tickets. IsUsed flips to true
// exactly once, at the gate.
type Ticket struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	OrderID      uint       `gorm:"index;not null" json:"order_id"`
	Reference    string     `gorm:"index;not null" json:"reference"`
	CustomerName string     `gorm:"not null" json:"customer_name"`
	TicketType   TicketType `gorm:"type:varchar(20);not null" json:"ticket_type"`
	IsUsed       bool       `gorm:"not null;default:false" json:"is_used"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	VerifiedBy   string     `json:"verified_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	Order *PurchaseOrder `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}
