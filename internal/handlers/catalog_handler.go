package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

// CatalogHandler serves a provider's own services and their pricing
type CatalogHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== SERVICES =====

func (h *CatalogHandler) ListServices(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	views, err := h.service.ListServices(c.Request.Context(), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.ServiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, err := h.service.CreateService(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.GetService(c.Request.Context(), principal, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) ReplaceService(c *gin.Context) {
	var req services.ServiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.updateService(c, req.AsUpdate())
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var req services.ServiceUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.updateService(c, &req)
}

func (h *CatalogHandler) updateService(c *gin.Context, req *services.ServiceUpdateRequest) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.UpdateService(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), principal, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== PRICING =====

func (h *CatalogHandler) ListPricing(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.service.ListPricing(c.Request.Context(), principal, serviceID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CatalogHandler) CreatePricing(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.PricingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, err := h.service.CreatePricing(c.Request.Context(), principal, serviceID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *CatalogHandler) GetPricing(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.GetPricing(c.Request.Context(), principal, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) ReplacePricing(c *gin.Context) {
	var req services.PricingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.updatePricing(c, req.AsUpdate())
}

func (h *CatalogHandler) UpdatePricing(c *gin.Context) {
	var req services.PricingUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.updatePricing(c, &req)
}

func (h *CatalogHandler) updatePricing(c *gin.Context, req *services.PricingUpdateRequest) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.UpdatePricing(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) DeletePricing(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePricing(c.Request.Context(), principal, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
