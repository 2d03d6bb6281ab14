package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"arenabook/internal/api"
	"arenabook/internal/arena"
	"arenabook/internal/auth"
	"arenabook/internal/logger"
	"arenabook/internal/schedule"

	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with 503 responses when a commit scope is busy.
const retryAfterSeconds = "1"

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

func (h *Handler) FreeIntervals(c *gin.Context) {
	arenaID, date, ok := h.arenaAndDate(c)
	if !ok {
		return
	}

	out, err := h.service.FreeIntervals(c.Request.Context(), arenaID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Slots(c *gin.Context) {
	arenaID, date, ok := h.arenaAndDate(c)
	if !ok {
		return
	}

	var duration time.Duration
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 || minutes > 24*60 {
			api.Fail(c, http.StatusBadRequest, "invalid_duration", "duration must be a positive number of minutes")
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	out, err := h.service.Slots(c.Request.Context(), arenaID, date, duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Calendar(c *gin.Context) {
	arenaID, ok := api.ParamID(c, "arenaID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid arena ID")
		return
	}

	from := schedule.DateOf(time.Now().In(h.loc))
	if raw := c.Query("from"); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			api.Fail(c, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		from = d
	}

	bookings, err := h.service.Calendar(c.Request.Context(), arenaID, from)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Date.IsZero() {
		api.Fail(c, http.StatusBadRequest, "invalid_date", "date is required")
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	bookings, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) Get(c *gin.Context) {
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

	b, err := h.service.Get(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	if b.UserID != userID && auth.GetUserRole(c) != "admin" {
		respondError(c, ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
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

	b, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListForArena serves the admin view. date is optional.
func (h *Handler) ListForArena(c *gin.Context) {
	arenaID, err := strconv.Atoi(c.Query("arena_id"))
	if err != nil || arenaID <= 0 {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "arena_id query parameter is required")
		return
	}

	var date *schedule.Date
	if raw := c.Query("date"); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			api.Fail(c, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		date = &d
	}

	bookings, err := h.service.ListForArena(c.Request.Context(), arenaID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) Approve(c *gin.Context) {
	h.adminTransition(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.adminTransition(c, h.service.Reject)
}

func (h *Handler) adminTransition(c *gin.Context, apply func(ctx context.Context, id int) (*Booking, error)) {
	bookingID, ok := api.ParamID(c, "bookingID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid booking ID")
		return
	}

	b, err := apply(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) arenaAndDate(c *gin.Context) (int, schedule.Date, bool) {
	arenaID, ok := api.ParamID(c, "arenaID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid arena ID")
		return 0, schedule.Date{}, false
	}
	date, err := schedule.ParseDate(c.Query("date"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_date", err.Error())
		return 0, schedule.Date{}, false
	}
	return arenaID, date, true
}

const statusClientClosedRequest = 499

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInterval):
		api.Fail(c, http.StatusBadRequest, "invalid_interval", err.Error())
	case errors.Is(err, ErrArenaClosed):
		api.Fail(c, http.StatusBadRequest, "arena_closed", err.Error())
	case errors.Is(err, ErrOutsideWorkingHours):
		api.Fail(c, http.StatusBadRequest, "outside_working_hours", err.Error())
	case errors.Is(err, ErrNoPriceConfigured):
		api.Fail(c, http.StatusBadRequest, "no_price_configured", err.Error())
	case errors.Is(err, ErrSlotConflict):
		// Losing a commit race and a plain overlap look the same to clients.
		api.Fail(c, http.StatusConflict, "slot_conflict", ErrSlotConflict.Error())
	case errors.Is(err, ErrInvalidTransition):
		api.Fail(c, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, ErrBusy):
		c.Header("Retry-After", retryAfterSeconds)
		api.Fail(c, http.StatusServiceUnavailable, "busy", ErrBusy.Error())
	case errors.Is(err, ErrBookingNotFound):
		api.Fail(c, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, arena.ErrArenaNotFound):
		api.Fail(c, http.StatusNotFound, "arena_not_found", err.Error())
	case errors.Is(err, ErrForbidden):
		api.Fail(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, context.Canceled):
		// Client closed the request; nobody reads the body.
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		logger.Error("booking request failed", "path", c.FullPath(), "error", err)
		api.Fail(c, http.StatusInternalServerError, "internal", "Internal server error")
	}
}
