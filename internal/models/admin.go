package models

import "time"

type Permission string

const (
	PermApprovePayments Permission = "approvePayments"
	PermRejectPayments  Permission = "rejectPayments"
	PermViewAnalytics   Permission = "viewAnalytics"
	PermVerifyTickets   Permission = "verifyTickets"
	PermManageAdmins    Permission = "manageAdmins"
)

// AllPermissions is the full capability set, granted implicitly to super-admins.
var AllPermissions = []Permission{
	PermApprovePayments,
	PermRejectPayments,
	PermViewAnalytics,
	PermVerifyTickets,
	PermManageAdmins,
}

func (p Permission) Valid() bool {
	switch p {
	case PermApprovePayments, PermRejectPayments, PermViewAnalytics, PermVerifyTickets, PermManageAdmins:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// AdminAccount identifies back-office staff. AdminID is the login credential
// and has the fixed format DNCV-#### .
type AdminAccount struct {
	AdminID     string       `gorm:"primaryKey;size:9" json:"admin_id"`
	Name        string       `gorm:"not null" json:"name"`
	Role        Role         `gorm:"type:varchar(20);not null;default:'admin'" json:"role"`
	Permissions []Permission `gorm:"serializer:json" json:"permissions"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	LastLogin   *time.Time   `json:"last_login,omitempty"`
	LoginCount  int          `gorm:"not null;default:0" json:"login_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Has reports whether the account holds the given capability. Super-admins
// hold every capability regardless of the stored set.
func (a *AdminAccount) Has(p Permission) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	for _, held := range a.Permissions {
		if held == p {
			return true
		}
	}
	return false
}
