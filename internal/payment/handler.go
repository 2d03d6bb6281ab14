package payment

import (
	"errors"
	"net/http"

	"arenabook/internal/api"
	"arenabook/internal/auth"
	"arenabook/internal/booking"
	"arenabook/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	bookingID, ok := api.ParamID(c, "bookingID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid booking ID")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, bookingID, Method(req.Method))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List returns the caller's payments, or every payment for admins.
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	list, err := h.service.List(c.Request.Context(), userID, auth.GetUserRole(c) == "admin")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	id, ok := api.ParamID(c, "paymentID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid payment ID")
		return
	}

	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	p, err := h.service.MarkSuccess(c.Request.Context(), id, req.ProviderTransactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkFailed(c *gin.Context) {
	id, ok := api.ParamID(c, "paymentID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid payment ID")
		return
	}

	p, err := h.service.MarkFailed(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Refund(c *gin.Context) {
	id, ok := api.ParamID(c, "paymentID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid payment ID")
		return
	}

	p, err := h.service.Refund(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		api.Fail(c, http.StatusNotFound, "payment_not_found", err.Error())
	case errors.Is(err, booking.ErrBookingNotFound):
		api.Fail(c, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, ErrNotBookingOwner):
		api.Fail(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ErrInvalidMethod):
		api.Fail(c, http.StatusBadRequest, "invalid_payment_method", err.Error())
	case errors.Is(err, ErrBookingNotPayable):
		api.Fail(c, http.StatusConflict, "booking_not_payable", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		api.Fail(c, http.StatusConflict, "invalid_payment_transition", err.Error())
	default:
		logger.Error("payment request failed", "path", c.FullPath(), "error", err)
		api.Fail(c, http.StatusInternalServerError, "internal", "Internal server error")
	}
}
