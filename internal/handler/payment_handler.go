package handler

import (
	"errors"
	"net/http"

	"github.com/denoblevoices/ticketing/internal/dto"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/labstack/echo/v4"
)

// PaymentHandler serves the customer-facing purchase flow.
type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, limiter echo.MiddlewareFunc) {
	payments := e.Group("/api/payments")
	if limiter != nil {
		payments.Use(limiter)
	}
	payments.POST("/bank-transfer", h.InitiatePurchase)
	payments.POST("/transfer-completed", h.MarkTransferCompleted)
	payments.GET("/status/:reference", h.GetStatus)
}

func (h *PaymentHandler) InitiatePurchase(c echo.Context) error {
	var req dto.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "fullName is required")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	order, bank, err := h.svc.InitiatePurchase(c.Request().Context(), service.PurchaseInput{
		TicketType: models.TicketType(req.TicketType),
		Quantity:   req.Quantity,
		Email:      req.Email,
		Phone:      req.Phone,
		FullName:   req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTicketType):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientInventory):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToPurchaseResponse(order, bank))
}

func (h *PaymentHandler) MarkTransferCompleted(c echo.Context) error {
	var req dto.TransferCompletedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Reference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reference is required")
	}

	order, err := h.svc.MarkTransferCompleted(c.Request().Context(), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *PaymentHandler) GetStatus(c echo.Context) error {
	order, err := h.svc.GetStatus(c.Request().Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
