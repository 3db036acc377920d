package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type SubscriptionHandler struct {
	BaseHandler
	subscriptions services.SubscriptionService
	alerts        services.SearchAlertService
}

func NewSubscriptionHandler(subscriptions services.SubscriptionService, alerts services.SearchAlertService, logger utils.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:   NewBaseHandler(logger),
		subscriptions: subscriptions,
		alerts:        alerts,
	}
}

// ===== SUBSCRIPTIONS =====

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	subs, err := h.subscriptions.List(c.Request.Context(), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.SubscriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptions.Create(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.subscriptions.Cancel(c.Request.Context(), principal, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ===== SEARCH ALERTS =====

func (h *SubscriptionHandler) ListSearchAlerts(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	alerts, err := h.alerts.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *SubscriptionHandler) CreateSearchAlert(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.SearchAlertRequest
	if !h.bindJSON(c, &req) {
		return
	}

	alert, err := h.alerts.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

func (h *SubscriptionHandler) UpdateSearchAlert(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SearchAlertUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	alert, err := h.alerts.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *SubscriptionHandler) DeleteSearchAlert(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.alerts.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
