package dto

import (
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/service"
)

type BankDetailsResponse struct {
	BankName      string  `json:"bankName"`
	AccountName   string  `json:"accountName"`
	AccountNumber string  `json:"accountNumber"`
	SortCode      string  `json:"sortCode"`
	Amount        float64 `json:"amount"`
	Reference     string  `json:"reference"`
	TransferNote  string  `json:"transferNote"`
}

type PurchaseResponse struct {
	Reference    string              `json:"reference"`
	CustomerName string              `json:"customerName"`
	Amount       float64             `json:"amount"`
	BankDetails  BankDetailsResponse `json:"bankDetails"`
}

type OrderResponse struct {
	Reference        string             `json:"reference"`
	CustomerName     string             `json:"customerName"`
	Email            string             `json:"email"`
	Phone            string             `json:"phone,omitempty"`
	TicketType       models.TicketType  `json:"ticketType"`
	Quantity         int                `json:"quantity"`
	UnitPrice        float64            `json:"unitPrice"`
	Amount           float64            `json:"amount"`
	Status           models.OrderStatus `json:"status"`
	TransferMarkedAt *time.Time         `json:"transferMarkedAt,omitempty"`
	DecidedAt        *time.Time         `json:"decidedAt,omitempty"`
	DecidedBy        string             `json:"decidedBy,omitempty"`
	RejectionReason  string             `json:"rejectionReason,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

type PendingOrderResponse struct {
	OrderResponse
	DaysPending int `json:"daysPending"`
}

type PendingListResponse struct {
	Orders     []PendingOrderResponse `json:"orders"`
	Pagination service.Pagination     `json:"pagination"`
}

type ApproveResponse struct {
	Order     OrderResponse `json:"order"`
	TicketIDs []string      `json:"ticketIds"`
}

type VerificationResponse struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message"`
	Data    *service.VerificationResult `json:"data,omitempty"`
}

// AlreadyUsedResponse carries the original admission so staff can decide
// whether to admit manually.
type AlreadyUsedResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	UsedAt     time.Time `json:"usedAt"`
	VerifiedBy string    `json:"verifiedBy"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Admin     AdminResponse `json:"admin"`
}

type AdminResponse struct {
	AdminID     string              `json:"adminId"`
	Name        string              `json:"name"`
	Role        models.Role         `json:"role"`
	Permissions []models.Permission `json:"permissions"`
	Active      bool                `json:"active"`
	LastLogin   *time.Time          `json:"lastLogin,omitempty"`
	LoginCount  int                 `json:"loginCount"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToOrderResponse(o *models.PurchaseOrder) OrderResponse {
	return OrderResponse{
		Reference:        o.Reference,
		CustomerName:     o.FullName,
		Email:            o.Email,
		Phone:            o.Phone,
		TicketType:       o.TicketType,
		Quantity:         o.Quantity,
		UnitPrice:        o.UnitPrice,
		Amount:           o.Amount,
		Status:           o.Status,
		TransferMarkedAt: o.TransferMarkedAt,
		DecidedAt:        o.DecidedAt,
		DecidedBy:        o.DecidedBy,
		RejectionReason:  o.RejectionReason,
		CreatedAt:        o.CreatedAt,
	}
}

func ToPurchaseResponse(o *models.PurchaseOrder, bank service.BankDetails) PurchaseResponse {
	return PurchaseResponse{
		Reference:    o.Reference,
		CustomerName: o.FullName,
		Amount:       o.Amount,
		BankDetails: BankDetailsResponse{
			BankName:      bank.BankName,
			AccountName:   bank.AccountName,
			AccountNumber: bank.AccountNumber,
			SortCode:      bank.SortCode,
			Amount:        o.Amount,
			Reference:     o.Reference,
			TransferNote:  o.Reference,
		},
	}
}

func ToAdminResponse(a *models.AdminAccount) AdminResponse {
	perms := a.Permissions
	if a.Role == models.RoleSuperAdmin {
		perms = models.AllPermissions
	}
	return AdminResponse{
		AdminID:     a.AdminID,
		Name:        a.Name,
		Role:        a.Role,
		Permissions: perms,
		Active:      a.Active,
		LastLogin:   a.LastLogin,
		LoginCount:  a.LoginCount,
		CreatedAt:   a.CreatedAt,
	}
}
