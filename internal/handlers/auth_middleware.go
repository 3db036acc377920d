package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

const (
	contextUserKey   = "user"
	contextUserIDKey = "user_id"
	contextRoleKey   = "user_role"
)

// JWTAuthMiddleware authenticates bearer access tokens against the user store
type JWTAuthMiddleware struct {
	users  services.UserService
	logger utils.Logger
}

func NewJWTAuthMiddleware(users services.UserService, logger utils.Logger) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{users: users, logger: logger}
}

// AuthMiddleware rejects the request with 401 unless a valid access token is present
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userFromContext(c); ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}

		user, err := m.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !services.IsAuthentication(err) {
				utils.GetLogger(c, m.logger).Error("Failed to authenticate request", "error", err)
			}
			abortUnauthorized(c, "Given token not valid for any token type.")
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller when a valid token is sent and never rejects
func (m *JWTAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if user, err := m.users.Authenticate(c.Request.Context(), token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireRoleMiddleware admits only the listed roles; it must run after AuthMiddleware
func (m *JWTAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromContext(c)
		if !ok {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}
		if !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Error:     "forbidden",
				Message:   fmt.Sprintf("This action requires one of the roles: %v.", roles),
				Timestamp: time.Now().UTC(),
				Path:      c.Request.URL.Path,
			})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(contextUserKey, user)
	c.Set(contextUserIDKey, user.ID)
	c.Set(contextRoleKey, user.Role)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}
