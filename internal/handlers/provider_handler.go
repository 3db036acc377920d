package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type ProviderHandler struct {
	BaseHandler
	service services.ProviderService
}

func NewProviderHandler(service services.ProviderService, logger utils.Logger) *ProviderHandler {
	return &ProviderHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListProviders lists approved providers
// @Summary List providers
// @Tags providers
// @Produce json
// @Param category query string false "Exact category"
// @Param subcategory query string false "Exact subcategory"
// @Param search query string false "Matches name, description or address"
// @Param ordering query string false "name, created_at or profile_views, optionally prefixed with -"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 6, max: 50)"
// @Success 200 {object} PageResponse
// @Failure 404 {object} ErrorResponse "Invalid page"
// @Router /providers [get]
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	params := services.ProviderListParams{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
	}

	providers, total, err := h.service.List(c.Request.Context(), params, page.Request())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondPage(c, page, total, providers)
}

// SearchProviders runs the marketplace search
// @Summary Search providers
// @Tags providers
// @Produce json
// @Param q query string false "Free text over name, description and address"
// @Param location query string false "Substring of the address"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius query number false "Radius in km (default: 10)"
// @Param sort query string false "relevance, rating, popularity, newest or distance"
// @Success 200 {object} PageResponse
// @Router /providers/search [get]
func (h *ProviderHandler) SearchProviders(c *gin.Context) {
	page, ok := h.parsePagination(c)
	if !ok {
		return
	}

	params := services.SearchParams{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Location:    c.Query("location"),
		Lat:         c.Query("lat"),
		Lng:         c.Query("lng"),
		Radius:      c.Query("radius"),
		MinRating:   c.Query("min_rating"),
		MinReviews:  c.Query("min_reviews"),
		MaxPrice:    c.Query("max_price"),
		Sort:        c.Query("sort"),
	}
	h.LogRequest(c, "Searching providers", "q", params.Query, "sort", params.Sort)

	providers, total, err := h.service.Search(c.Request.Context(), params, page.Request())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondPage(c, page, total, providers)
}

func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.ProviderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	provider, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, provider)
}

// GetProvider returns the detail view; every call counts as one profile view
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	provider, err := h.service.GetDetail(c.Request.Context(), h.optionalPrincipal(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// ReplaceProvider handles PUT, which requires the full body
func (h *ProviderHandler) ReplaceProvider(c *gin.Context) {
	var req services.ProviderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.update(c, req.AsUpdate())
}

// UpdateProvider handles PATCH
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	var req services.ProviderUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.update(c, &req)
}

func (h *ProviderHandler) update(c *gin.Context, req *services.ProviderUpdateRequest) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	provider, err := h.service.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
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

func (h *ProviderHandler) GetMyProvider(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	provider, err := h.service.GetMine(c.Request.Context(), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// UpsertMyProvider creates the caller's profile or updates it in place
func (h *ProviderHandler) UpsertMyProvider(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.ProviderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	provider, created, err := h.service.UpsertMine(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, provider)
}

func (h *ProviderHandler) AddPhoto(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ProviderPhotoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	photo, err := h.service.AddPhoto(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *ProviderHandler) AddCertificate(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ProviderCertificateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	certificate, err := h.service.AddCertificate(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, certificate)
}
