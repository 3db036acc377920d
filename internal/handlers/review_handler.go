package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type ReviewHandler struct {
	BaseHandler
	service services.ReviewService
}

func NewReviewHandler(service services.ReviewService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListProviderReviews pages through the reviews of a visible provider
func (h *ReviewHandler) ListProviderReviews(c *gin.Context) {
	providerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	reviews, total, err := h.service.ListByProvider(c.Request.Context(), h.optionalPrincipal(c), providerID, page.Request())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondPage(c, page, total, reviews)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	providerID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.service.Create(c.Request.Context(), principal, providerID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReviewUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.service.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
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
