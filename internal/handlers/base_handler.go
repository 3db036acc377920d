package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error            string                     `json:"error"`
	Message          string                     `json:"message"`
	Details          interface{}                `json:"details,omitempty"`
	ValidationErrors validator.ValidationErrors `json:"validation_errors,omitempty"`
	Timestamp        time.Time                  `json:"timestamp"`
	Path             string                     `json:"path"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse is the paginated list envelope
type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// pagination is a resolved page/page_size pair
type pagination struct {
	Page     int
	PageSize int
}

func (p pagination) Request() services.PageRequest {
	return services.PageRequest{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

func (h *BaseHandler) respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

// handleServiceError maps typed service errors onto status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:            "validation_error",
			Message:          "Validation failed",
			ValidationErrors: validationErrors,
			Timestamp:        time.Now().UTC(),
			Path:             c.Request.URL.Path,
		})
		return
	}

	var authErr *services.AuthenticationError
	if errors.As(err, &authErr) {
		h.respondError(c, http.StatusUnauthorized, "unauthorized", authErr.Message)
		return
	}

	var permissionErr *services.PermissionError
	if errors.As(err, &permissionErr) {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You do not have permission to perform this action.",
			Details: map[string]interface{}{
				"resource": permissionErr.Resource,
				"action":   permissionErr.Action,
				"reason":   permissionErr.Reason,
			},
			Timestamp: time.Now().UTC(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		h.respondError(c, http.StatusNotFound, "not_found", notFoundErr.Error())
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		h.respondError(c, http.StatusConflict, "conflict", conflictErr.Message)
		return
	}

	h.LogError(c, err, "Unexpected service error")
	h.respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// bindJSON decodes the body, replying 400 on malformed input
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request payload",
			ValidationErrors: validator.ValidationErrors{{
				Field:   validator.NonFieldErrors,
				Message: err.Error(),
				Rule:    "json",
			}},
			Timestamp: time.Now().UTC(),
			Path:      c.Request.URL.Path,
		})
		return false
	}
	return true
}

// parseUUIDParam treats a malformed id like an unknown one
func (h *BaseHandler) parseUUIDParam(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.respondError(c, http.StatusNotFound, "not_found", "Not found.")
		return uuid.Nil, false
	}
	return id, true
}

// ===== AUTHENTICATED CALLER =====

// principal returns the authenticated caller, replying 401 when there is none
func (h *BaseHandler) principal(c *gin.Context) (services.Principal, bool) {
	user, ok := userFromContext(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "unauthorized", "Authentication credentials were not provided.")
		return services.Principal{}, false
	}
	return services.NewPrincipal(user), true
}

// optionalPrincipal returns nil for anonymous callers
func (h *BaseHandler) optionalPrincipal(c *gin.Context) *services.Principal {
	user, ok := userFromContext(c)
	if !ok {
		return nil
	}
	p := services.NewPrincipal(user)
	return &p
}

func userFromContext(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// ===== PAGINATION =====

// parsePagination reads page and page_size; an unusable page replies 404
func (h *BaseHandler) parsePagination(c *gin.Context) (pagination, bool) {
	p := pagination{Page: 1, PageSize: DefaultPageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			h.respondError(c, http.StatusNotFound, "not_found", "Invalid page.")
			return p, false
		}
		p.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			p.PageSize = min(size, MaxPageSize)
		}
	}
	return p, true
}

// respondPage writes the page envelope, or 404 when the page is past the end
func (h *BaseHandler) respondPage(c *gin.Context, p pagination, total int64, results interface{}) {
	pages := int(math.Ceil(float64(total) / float64(p.PageSize)))
	if pages == 0 {
		pages = 1
	}
	if p.Page > pages {
		h.respondError(c, http.StatusNotFound, "not_found", "Invalid page.")
		return
	}

	resp := PageResponse{Count: total, Results: results}
	if p.Page < pages {
		next := pageURL(c, p.Page+1)
		resp.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		resp.Previous = &prev
	}
	c.JSON(http.StatusOK, resp)
}

// pageURL builds the absolute URL of the current request at another page
func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := url.Values{}
	for k, v := range c.Request.URL.Query() {
		query[k] = v
	}
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
