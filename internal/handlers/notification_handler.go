package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	service services.NotificationService
}

func NewNotificationHandler(service services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListNotifications pages through the caller's notifications, newest first
// @Param unread query bool false "Only unread notifications"
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	notifications, total, err := h.service.List(c.Request.Context(), principal.UserID, boolQuery(c, "unread"), page.Request())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondPage(c, page, total, notifications)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), principal.UserID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Notification marked as read."})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	marked, err := h.service.MarkAllRead(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}
