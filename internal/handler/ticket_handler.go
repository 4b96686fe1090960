package handler

import (
	"errors"
	"net/http"

	"github.com/denoblevoices/ticketing/internal/dto"
	"github.com/denoblevoices/ticketing/internal/middleware"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

// TicketHandler serves gate-side verification.
type TicketHandler struct {
	ledger    service.VerificationService
	adminRepo repository.AdminRepository
	jwtSecret string
}

func NewTicketHandler(ledger service.VerificationService, adminRepo repository.AdminRepository, jwtSecret string) *TicketHandler {
	return &TicketHandler{ledger: ledger, adminRepo: adminRepo, jwtSecret: jwtSecret}
}

func (h *TicketHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/tickets/verify", h.VerifyTicket,
		middleware.JWTAuth(h.jwtSecret),
		middleware.RequirePermission(h.adminRepo, models.PermVerifyTickets),
	)
}

func (h *TicketHandler) VerifyTicket(c echo.Context) error {
	var req dto.VerifyTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	verifiedBy := req.VerifiedBy
	if verifiedBy == "" {
		verifiedBy = middleware.ActorID(c)
	}

	result, err := h.ledger.VerifyTicket(c.Request().Context(), req.TicketID, verifiedBy)
	if err != nil {
		// AlreadyUsed renders distinctly from NotFound so gate staff can see
		// it is a replay of a real ticket, not a fake one.
		var used *service.AlreadyUsedError
		if errors.As(err, &used) {
			return c.JSON(http.StatusConflict, dto.AlreadyUsedResponse{
				Success:    false,
				Message:    "Ticket has already been used",
				UsedAt:     used.UsedAt,
				VerifiedBy: used.VerifiedBy,
			})
		}
		if errors.Is(err, service.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, dto.VerificationResponse{
				Success: false,
				Message: "Ticket not found",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.VerificationResponse{
		Success: true,
		Message: "Ticket verified",
		Data:    result,
	})
}
