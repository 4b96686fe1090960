package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/denoblevoices/ticketing/internal/dto"
	"github.com/denoblevoices/ticketing/internal/middleware"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the back-office: login, pending-payment moderation,
// dashboard/analytics, and admin account management.
type AdminHandler struct {
	admins    service.AdminService
	payments  service.PaymentService
	analytics service.AnalyticsService
	ledger    service.VerificationService

	adminRepo repository.AdminRepository
	jwtSecret string
}

func NewAdminHandler(
	admins service.AdminService,
	payments service.PaymentService,
	analytics service.AnalyticsService,
	ledger service.VerificationService,
	adminRepo repository.AdminRepository,
	jwtSecret string,
) *AdminHandler {
	return &AdminHandler{
		admins:    admins,
		payments:  payments,
		analytics: analytics,
		ledger:    ledger,
		adminRepo: adminRepo,
		jwtSecret: jwtSecret,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/admin/login", h.Login)

	admin := e.Group("/api/admin", middleware.JWTAuth(h.jwtSecret))
	admin.GET("/profile", h.Profile)

	admin.GET("/payments/pending", h.ListPending, h.require(models.PermApprovePayments))
	admin.POST("/payments/:reference/approve", h.ApprovePayment, h.require(models.PermApprovePayments))
	admin.POST("/payments/:reference/reject", h.RejectPayment, h.require(models.PermRejectPayments))

	admin.GET("/dashboard", h.Dashboard, h.require(models.PermViewAnalytics))
	admin.GET("/analytics", h.Analytics, h.require(models.PermViewAnalytics))
	admin.GET("/verification-stats", h.VerificationStats, h.require(models.PermViewAnalytics))

	admin.GET("/admins", h.ListAdmins, h.require(models.PermManageAdmins))
	admin.POST("/admins", h.CreateAdmin, h.require(models.PermManageAdmins))
	admin.PATCH("/admins/:adminId", h.UpdateAdmin, h.require(models.PermManageAdmins))
	admin.DELETE("/admins/:adminId", h.DeactivateAdmin, h.require(models.PermManageAdmins))
}

func (h *AdminHandler) require(perm models.Permission) echo.MiddlewareFunc {
	return middleware.RequirePermission(h.adminRepo, perm)
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.admins.Login(c.Request().Context(), req.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAdminID):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAdminNotFound), errors.Is(err, service.ErrAdminInactive):
			return echo.NewHTTPError(http.StatusUnauthorized, "login failed")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Admin:     dto.ToAdminResponse(result.Admin),
	})
}

func (h *AdminHandler) Profile(c echo.Context) error {
	admin, err := h.admins.Profile(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToAdminResponse(admin))
}

func (h *AdminHandler) ListPending(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	pending, pagination, err := h.payments.ListPending(c.Request().Context(), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	orders := make([]dto.PendingOrderResponse, len(pending))
	for i, p := range pending {
		orders[i] = dto.PendingOrderResponse{
			OrderResponse: dto.ToOrderResponse(&p.PurchaseOrder),
			DaysPending:   p.DaysPending,
		}
	}

	return c.JSON(http.StatusOK, dto.PendingListResponse{Orders: orders, Pagination: pagination})
}

func (h *AdminHandler) ApprovePayment(c echo.Context) error {
	order, ticketIDs, err := h.payments.ApprovePayment(c.Request().Context(), c.Param("reference"), middleware.ActorID(c))
	if err != nil {
		return mapTransitionError(err)
	}

	return c.JSON(http.StatusOK, dto.ApproveResponse{
		Order:     dto.ToOrderResponse(order),
		TicketIDs: ticketIDs,
	})
}

func (h *AdminHandler) RejectPayment(c echo.Context) error {
	var req dto.RejectPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.payments.RejectPayment(c.Request().Context(), c.Param("reference"), middleware.ActorID(c), req.Reason)
	if err != nil {
		return mapTransitionError(err)
	}

	return c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.analytics.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Analytics(c echo.Context) error {
	report, err := h.analytics.Report(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) VerificationStats(c echo.Context) error {
	stats, err := h.ledger.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListAdmins(c echo.Context) error {
	admins, err := h.admins.ListAdmins(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.AdminResponse, len(admins))
	for i := range admins {
		resp[i] = dto.ToAdminResponse(&admins[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req dto.CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	perms := make([]models.Permission, len(req.Permissions))
	for i, p := range req.Permissions {
		perms[i] = models.Permission(p)
	}

	admin, err := h.admins.CreateAdmin(c.Request().Context(), req.Name, models.Role(req.Role), perms)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrInvalidPermission):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToAdminResponse(admin))
}

func (h *AdminHandler) UpdateAdmin(c echo.Context) error {
	var req dto.UpdateAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	upd := service.AdminUpdate{Name: req.Name, Active: req.Active}
	if req.Role != nil {
		role := models.Role(*req.Role)
		upd.Role = &role
	}
	if req.Permissions != nil {
		perms := make([]models.Permission, len(req.Permissions))
		for i, p := range req.Permissions {
			perms[i] = models.Permission(p)
		}
		upd.Permissions = perms
	}

	admin, err := h.admins.UpdateAdmin(c.Request().Context(), c.Param("adminId"), upd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrInvalidPermission):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToAdminResponse(admin))
}

func (h *AdminHandler) DeactivateAdmin(c echo.Context) error {
	if err := h.admins.DeactivateAdmin(c.Request().Context(), c.Param("adminId")); err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
