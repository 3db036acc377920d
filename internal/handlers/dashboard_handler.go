package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetDashboardStats returns marketplace totals, trends and booking activity
// @Summary Get dashboard statistics
// @Description Totals, bookings by status, 30 day trends and a booking activity series
// @Tags admin
// @Produce json
// @Param period query string false "Activity period: week, month or year (default: month)"
// @Success 200 {object} services.DashboardStatsResponse
// @Failure 400 {object} ErrorResponse "Bad request - invalid period"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /users/admin/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	period := c.Query("period")
	h.LogRequest(c, "Getting dashboard stats", "period", period)

	stats, err := h.service.GetDashboardStats(c.Request.Context(), period)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
