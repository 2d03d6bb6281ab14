package notification

import (
	"errors"
	"net/http"

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

func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "internal", "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}
	id, ok := api.ParamID(c, "notificationID")
	if !ok {
		api.Fail(c, http.StatusBadRequest, "invalid_request", "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			api.Fail(c, http.StatusNotFound, "notification_not_found", err.Error())
			return
		}
		api.Fail(c, http.StatusInternalServerError, "internal", "Failed to update notification")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Notification marked as read"})
}
