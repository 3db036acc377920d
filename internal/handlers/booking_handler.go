package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type BookingHandler struct {
	BaseHandler
	service services.BookingService
}

func NewBookingHandler(service services.BookingService, logger utils.Logger) *BookingHandler {
	return &BookingHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListBookings returns a bare list: bookings on the caller's services for providers,
// the caller's own bookings otherwise
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Param status query string false "Filter by booking status"
// @Success 200 {array} models.BookingView
// @Failure 401 {object} ErrorResponse
// @Router /providers/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var status *models.BookingStatus
	if raw := c.Query("status"); raw != "" {
		s := models.BookingStatus(raw)
		status = &s
	}

	bookings, err := h.service.List(c.Request.Context(), principal, status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.BookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	booking, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Booking created", "booking_id", booking.ID)
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking serves PUT and PATCH; every field of the body is optional
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.BookingUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	booking, err := h.service.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
