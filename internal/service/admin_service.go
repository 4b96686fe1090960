package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/denoblevoices/ticketing/internal/auth"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"gorm.io/gorm"
)

var adminIDPattern = regexp.MustCompile(`^DNCV-\d{4}$`)

type LoginResult struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	Admin     *models.AdminAccount `json:"admin"`
}

type AdminUpdate struct {
	Name        *string
	Role        *models.Role
	Permissions []models.Permission
	Active      *bool
}

type AdminService interface {
	Login(ctx context.Context, adminID string) (*LoginResult, error)
	Profile(ctx context.Context, adminID string) (*models.AdminAccount, error)
	CreateAdmin(ctx context.Context, name string, role models.Role, perms []models.Permission) (*models.AdminAccount, error)
	UpdateAdmin(ctx context.Context, adminID string, upd AdminUpdate) (*models.AdminAccount, error)
	DeactivateAdmin(ctx context.Context, adminID string) error
	ListAdmins(ctx context.Context) ([]models.AdminAccount, error)
}

type adminService struct {
	admins    repository.AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAdminService(admins repository.AdminRepository, jwtSecret string, tokenTTL time.Duration) AdminService {
	return &adminService{
		admins:    admins,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, adminID string) (*LoginResult, error) {
	if !adminIDPattern.MatchString(adminID) {
		return nil, ErrInvalidAdminID
	}

	admin, err := s.findAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.Active {
		return nil, ErrAdminInactive
	}

	loginAt := s.now()
	if err := s.admins.RecordLogin(ctx, adminID, loginAt); err != nil {
		return nil, err
	}
	admin.LastLogin = &loginAt
	admin.LoginCount++

	token, expiresAt, err := auth.NewAccessToken(s.jwtSecret, admin.AdminID, admin.Role, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (s *adminService) Profile(ctx context.Context, adminID string) (*models.AdminAccount, error) {
	return s.findAdmin(ctx, adminID)
}

func (s *adminService) CreateAdmin(ctx context.Context, name string, role models.Role, perms []models.Permission) (*models.AdminAccount, error) {
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return nil, ErrInvalidRole
	}
	for _, p := range perms {
		if !p.Valid() {
			return nil, ErrInvalidPermission
		}
	}

	adminID, err := s.admins.NextAdminID(ctx)
	if err != nil {
		return nil, err
	}

	admin := &models.AdminAccount{
		AdminID:     adminID,
		Name:        name,
		Role:        role,
		Permissions: perms,
		Active:      true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *adminService) UpdateAdmin(ctx context.Context, adminID string, upd AdminUpdate) (*models.AdminAccount, error) {
	admin, err := s.findAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		admin.Name = *upd.Name
	}
	if upd.Role != nil {
		if *upd.Role != models.RoleAdmin && *upd.Role != models.RoleSuperAdmin {
			return nil, ErrInvalidRole
		}
		admin.Role = *upd.Role
	}
	if upd.Permissions != nil {
		for _, p := range upd.Permissions {
			if !p.Valid() {
				return nil, ErrInvalidPermission
			}
		}
		admin.Permissions = upd.Permissions
	}
	if upd.Active != nil {
		admin.Active = *upd.Active
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// DeactivateAdmin disables the account instead of deleting it; decision
// records keep pointing at a real admin ID.
func (s *adminService) DeactivateAdmin(ctx context.Context, adminID string) error {
	admin, err := s.findAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	admin.Active = false
	return s.admins.Update(ctx, admin)
}

func (s *adminService) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	return s.admins.List(ctx)
}

func (s *adminService) findAdmin(ctx context.Context, adminID string) (*models.AdminAccount, error) {
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}
