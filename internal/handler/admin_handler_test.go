package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denoblevoices/ticketing/internal/dto"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock AdminService ---

type mockAdminService struct {
	loginFn      func(ctx context.Context, adminID string) (*service.LoginResult, error)
	profileFn    func(ctx context.Context, adminID string) (*models.AdminAccount, error)
	createFn     func(ctx context.Context, name string, role models.Role, perms []models.Permission) (*models.AdminAccount, error)
	updateFn     func(ctx context.Context, adminID string, upd service.AdminUpdate) (*models.AdminAccount, error)
	deactivateFn func(ctx context.Context, adminID string) error
	listFn       func(ctx context.Context) ([]models.AdminAccount, error)
}

func (m *mockAdminService) Login(ctx context.Context, adminID string) (*service.LoginResult, error) {
	return m.loginFn(ctx, adminID)
}
func (m *mockAdminService) Profile(ctx context.Context, adminID string) (*models.AdminAccount, error) {
	return m.profileFn(ctx, adminID)
}
func (m *mockAdminService) CreateAdmin(ctx context.Context, name string, role models.Role, perms []models.Permission) (*models.AdminAccount, error) {
	return m.createFn(ctx, name, role, perms)
}
func (m *mockAdminService) UpdateAdmin(ctx context.Context, adminID string, upd service.AdminUpdate) (*models.AdminAccount, error) {
	return m.updateFn(ctx, adminID, upd)
}
func (m *mockAdminService) DeactivateAdmin(ctx context.Context, adminID string) error {
	return m.deactivateFn(ctx, adminID)
}
func (m *mockAdminService) ListAdmins(ctx context.Context) ([]models.AdminAccount, error) {
	return m.listFn(ctx)
}

// --- Tests ---

func TestLogin_Handler_Success(t *testing.T) {
	svc := &mockAdminService{
		loginFn: func(ctx context.Context, adminID string) (*service.LoginResult, error) {
			assert.Equal(t, "DNCV-0002", adminID)
			return &service.LoginResult{
				Token:     "signed.jwt.token",
				ExpiresAt: time.Now().Add(12 * time.Hour),
				Admin: &models.AdminAccount{
					AdminID:     "DNCV-0002",
					Name:        "Gate Steward",
					Role:        models.RoleAdmin,
					Permissions: []models.Permission{models.PermVerifyTickets},
					Active:      true,
					LoginCount:  3,
				},
			}, nil
		},
	}

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/login", `{"adminId":"DNCV-0002"}`)
	c := e.NewContext(req, rec)

	h := NewAdminHandler(svc, nil, nil, nil, nil, "test-secret")
	err := h.Login(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, "DNCV-0002", resp.Admin.AdminID)
	assert.Equal(t, []models.Permission{models.PermVerifyTickets}, resp.Admin.Permissions)
}

func TestLogin_Handler_UnknownAdminHidesReason(t *testing.T) {
	svc := &mockAdminService{
		loginFn: func(ctx context.Context, adminID string) (*service.LoginResult, error) {
			return nil, service.ErrAdminNotFound
		},
	}

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/login", `{"adminId":"DNCV-0099"}`)
	c := e.NewContext(req, rec)

	h := NewAdminHandler(svc, nil, nil, nil, nil, "test-secret")
	err := h.Login(c)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	// Unknown and deactivated accounts get the same message.
	assert.Equal(t, "login failed", httpErr.Message)
}

func TestLogin_Handler_MalformedID(t *testing.T) {
	svc := &mockAdminService{
		loginFn: func(ctx context.Context, adminID string) (*service.LoginResult, error) {
			return nil, service.ErrInvalidAdminID
		},
	}

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/login", `{"adminId":"not-an-id"}`)
	c := e.NewContext(req, rec)

	h := NewAdminHandler(svc, nil, nil, nil, nil, "test-secret")
	err := h.Login(c)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestListPending_Handler(t *testing.T) {
	marked := time.Now().Add(-72 * time.Hour)
	payments := &mockPaymentService{
		listPendingFn: func(ctx context.Context, page, pageSize int) ([]service.PendingOrder, service.Pagination, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, pageSize)
			order := *sampleOrder()
			order.Status = models.StatusTransferMarked
			order.TransferMarkedAt = &marked
			return []service.PendingOrder{{PurchaseOrder: order, DaysPending: 3}},
				service.Pagination{Page: 2, PageSize: 10, TotalItems: 11, TotalPages: 2}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/payments/pending?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewAdminHandler(nil, payments, nil, nil, nil, "test-secret")
	err := h.ListPending(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PendingListResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, 3, resp.Orders[0].DaysPending)
	assert.Equal(t, int64(11), resp.Pagination.TotalItems)
}

func TestApprovePayment_Handler_RecordsActor(t *testing.T) {
	payments := &mockPaymentService{
		approveFn: func(ctx context.Context, reference, decidedBy string) (*models.PurchaseOrder, []string, error) {
			assert.Equal(t, "DNCV-K7QH2MWXRB", reference)
			assert.Equal(t, "DNCV-0001", decidedBy)
			order := *sampleOrder()
			order.Status = models.StatusApproved
			order.DecidedBy = decidedBy
			return &order, []string{"t1", "t2"}, nil
		},
	}

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/payments/DNCV-K7QH2MWXRB/approve", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("reference")
	c.SetParamValues("DNCV-K7QH2MWXRB")
	c.Set("admin_id", "DNCV-0001")

	h := NewAdminHandler(nil, payments, nil, nil, nil, "test-secret")
	err := h.ApprovePayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ApproveResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusApproved, resp.Order.Status)
	assert.Equal(t, []string{"t1", "t2"}, resp.TicketIDs)
}

func TestApprovePayment_Handler_AlreadyDecided(t *testing.T) {
	payments := &mockPaymentService{
		approveFn: func(ctx context.Context, reference, decidedBy string) (*models.PurchaseOrder, []string, error) {
			return nil, nil, service.ErrInvalidTransition
		},
	}

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/payments/DNCV-K7QH2MWXRB/approve", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("reference")
	c.SetParamValues("DNCV-K7QH2MWXRB")

	h := NewAdminHandler(nil, payments, nil, nil, nil, "test-secret")
	err := h.ApprovePayment(c)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestRejectPayment_Handler_PassesReason(t *testing.T) {
	payments := &mockPaymentService{
		rejectFn: func(ctx context.Context, reference, decidedBy, reason string) (*models.PurchaseOrder, error) {
			assert.Equal(t, "no matching transfer", reason)
			order := *sampleOrder()
			order.Status = models.StatusRejected
			order.RejectionReason = reason
			return &order, nil
		},
	}

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/payments/DNCV-K7QH2MWXRB/reject", `{"reason":"no matching transfer"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("reference")
	c.SetParamValues("DNCV-K7QH2MWXRB")
	c.Set("admin_id", "DNCV-0001")

	h := NewAdminHandler(nil, payments, nil, nil, nil, "test-secret")
	err := h.RejectPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.OrderResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusRejected, resp.Status)
	assert.Equal(t, "no matching transfer", resp.RejectionReason)
}

func TestCreateAdmin_Handler(t *testing.T) {
	svc := &mockAdminService{
		createFn: func(ctx context.Context, name string, role models.Role, perms []models.Permission) (*models.AdminAccount, error) {
			return &models.AdminAccount{
				AdminID:     "DNCV-0007",
				Name:        name,
				Role:        role,
				Permissions: perms,
				Active:      true,
			}, nil
		},
	}

	e := echo.New()
	body := `{"name":"New Steward","role":"admin","permissions":["verifyTickets"]}`
	req, rec := jsonRequest(http.MethodPost, "/api/admin/admins", body)
	c := e.NewContext(req, rec)

	h := NewAdminHandler(svc, nil, nil, nil, nil, "test-secret")
	err := h.CreateAdmin(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AdminResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DNCV-0007", resp.AdminID)
	assert.True(t, resp.Active)
}

func TestCreateAdmin_Handler_MissingName(t *testing.T) {
	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/api/admin/admins", `{"role":"admin"}`)
	c := e.NewContext(req, rec)

	h := NewAdminHandler(&mockAdminService{}, nil, nil, nil, nil, "test-secret")
	err := h.CreateAdmin(c)

	var httpErr *echo.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeactivateAdmin_Handler(t *testing.T) {
	var deactivated string
	svc := &mockAdminService{
		deactivateFn: func(ctx context.Context, adminID string) error {
			deactivated = adminID
			return nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/admins/DNCV-0003", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("adminId")
	c.SetParamValues("DNCV-0003")

	h := NewAdminHandler(svc, nil, nil, nil, nil, "test-secret")
	err := h.DeactivateAdmin(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "DNCV-0003", deactivated)
}

func TestSuperAdminResponse_ShowsAllPermissions(t *testing.T) {
	resp := dto.ToAdminResponse(&models.AdminAccount{
		AdminID: "DNCV-0001",
		Role:    models.RoleSuperAdmin,
		Active:  true,
	})

	assert.Equal(t, models.AllPermissions, resp.Permissions)
}
