package arena

import (
	"errors"
	"net/http"
	"strconv"

	"arenabook/internal/api"
	"arenabook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateArena(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateArenaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if auth.GetUserRole(c) != "admin" {
		req.OwnerID = 0
	}

	a, err := h.service.CreateArena(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "internal", "Failed to create arena")
		return
	}

	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListArenas(c *gin.Context) {
	arenas, err := h.service.ListArenas(c.Request.Context())
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "internal", "Failed to fetch arenas")
		return
	}
	c.JSON(http.StatusOK, arenas)
}

func (h *Handler) GetArena(c *gin.Context) {
	arenaID, ok := api.ParamID(c, "arenaID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid arena ID")
		return
	}

	a, err := h.service.GetArena(c.Request.Context(), arenaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) ListWorkingHours(c *gin.Context) {
	arenaID, ok := api.ParamID(c, "arenaID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid arena ID")
		return
	}

	hours, err := h.service.ListWorkingHours(c.Request.Context(), arenaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

func (h *Handler) ListPrices(c *gin.Context) {
	arenaID, ok := api.ParamID(c, "arenaID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid arena ID")
		return
	}

	prices, err := h.service.ListPrices(c.Request.Context(), arenaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

func (h *Handler) SetWorkingHours(c *gin.Context) {
	arenaID, ok := h.managedArena(c)
	if !ok {
		return
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_day_of_week", ErrInvalidDayOfWeek.Error())
		return
	}

	var req WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	wh, err := h.service.SetWorkingHours(c.Request.Context(), arenaID, day, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wh)
}

func (h *Handler) DeleteWorkingHours(c *gin.Context) {
	arenaID, ok := h.managedArena(c)
	if !ok {
		return
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_day_of_week", ErrInvalidDayOfWeek.Error())
		return
	}

	if err := h.service.DeleteWorkingHours(c.Request.Context(), arenaID, day); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetPrice(c *gin.Context) {
	arenaID, ok := h.managedArena(c)
	if !ok {
		return
	}

	dayType, err := ParseDayType(c.Param("dayType"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	p, err := h.service.SetPrice(c.Request.Context(), arenaID, dayType, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// managedArena resolves :arenaID and checks that the caller is an admin or
// the arena's owner. On failure the response is already written.
func (h *Handler) managedArena(c *gin.Context) (int, bool) {
	arenaID, ok := api.ParamID(c, "arenaID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid arena ID")
		return 0, false
	}

	if auth.GetUserRole(c) == "admin" {
		return arenaID, true
	}

	a, err := h.service.GetArena(c.Request.Context(), arenaID)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	userID, _ := auth.GetUserID(c)
	if a.OwnerID != userID {
		respondError(c, ErrNotArenaOwner)
		return 0, false
	}
	return arenaID, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrArenaNotFound):
		api.Fail(c, http.StatusNotFound, "arena_not_found", "Arena not found")
	case errors.Is(err, ErrWorkingHoursNotFound):
		api.Fail(c, http.StatusNotFound, "working_hours_not_found", err.Error())
	case errors.Is(err, ErrNotArenaOwner):
		api.Fail(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ErrInvalidDayOfWeek):
		api.Fail(c, http.StatusBadRequest, "invalid_day_of_week", err.Error())
	case errors.Is(err, ErrInvalidDayType):
		api.Fail(c, http.StatusBadRequest, "invalid_day_type", err.Error())
	case errors.Is(err, ErrInvalidWorkingHours):
		api.Fail(c, http.StatusBadRequest, "invalid_working_hours", err.Error())
	case errors.Is(err, ErrNegativePrice):
		api.Fail(c, http.StatusBadRequest, "negative_price", err.Error())
	default:
		api.Fail(c, http.StatusInternalServerError, "internal", "Internal server error")
	}
}
