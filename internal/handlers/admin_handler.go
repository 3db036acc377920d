package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

// AdminHandler serves the admin-only listings; the router gates it on the admin role
type AdminHandler struct {
	BaseHandler
	service services.AdminService
}

func NewAdminHandler(service services.AdminService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListUsers returns every user as a bare list
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListProviders returns every provider, approved or not, as a bare list
func (h *AdminHandler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *AdminHandler) ApproveProvider(c *gin.Context) {
	h.setApproval(c, true)
}

func (h *AdminHandler) RejectProvider(c *gin.Context) {
	h.setApproval(c, false)
}

func (h *AdminHandler) setApproval(c *gin.Context, approve bool) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Changing provider approval", "provider_id", id, "approve", approve)

	action := h.service.RejectProvider
	if approve {
		action = h.service.ApproveProvider
	}
	provider, err := action(c.Request.Context(), principal, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *AdminHandler) ExportUsers(c *gin.Context) {
	data, err := h.service.ExportUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	attachment(c, exportName("users"), data)
}

func (h *AdminHandler) ExportProviders(c *gin.Context) {
	data, err := h.service.ExportProviders(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	attachment(c, exportName("providers"), data)
}

func exportName(kind string) string {
	return fmt.Sprintf("%s-%s.xlsx", kind, time.Now().UTC().Format("20060102"))
}
