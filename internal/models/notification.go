package models

import "time"

type NotificationStatus string

const (
	NotificationDelivered NotificationStatus = "delivered"
	NotificationFailed    NotificationStatus = "failed"
)

// NotificationRecord is the audit trail written by the notification consumer.
// State transitions never wait on these rows; a lost notification is retried
// from the queue, not by replaying the transition.
type NotificationRecord struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	Template  string             `gorm:"not null" json:"template"`
	Recipient string             `gorm:"index;not null" json:"recipient"`
	Payload   string             `gorm:"type:text" json:"payload"`
	Status    NotificationStatus `gorm:"type:varchar(20);not null" json:"status"`
	Attempts  int                `gorm:"not null;default:1" json:"attempts"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
