package dto

type PurchaseRequest struct {
	TicketType string `json:"ticketType"`
	Quantity   int    `json:"quantity"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	FullName   string `json:"fullName"`
}

type TransferCompletedRequest struct {
	Reference string `json:"reference"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason"`
}

type LoginRequest struct {
	AdminID string `json:"adminId"`
}

type VerifyTicketRequest struct {
	TicketID   string `json:"ticketId"`
	VerifiedBy string `json:"verifiedBy"`
}

type CreateAdminRequest struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type UpdateAdminRequest struct {
	Name        *string  `json:"name,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}
