package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func newAuthRouter(users *stubUsers) *gin.Engine {
	m := NewJWTAuthMiddleware(users, testLogger())
	whoami := func(c *gin.Context) {
		id, exists := c.Get(contextUserIDKey)
		if !exists {
			c.JSON(http.StatusOK, gin.H{"user_id": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.(uuid.UUID).String()})
	}

	router := gin.New()
	router.Use(m.OptionalAuthMiddleware())
	router.GET("/public", whoami)
	router.GET("/private", m.AuthMiddleware(), whoami)
	router.GET("/admin", m.AuthMiddleware(), m.RequireRoleMiddleware(models.RoleAdmin), whoami)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	student := newUser(models.RoleStudent)
	admin := newUser(models.RoleAdmin)
	users := &stubUsers{tokens: map[string]*models.User{"student": student, "admin": admin}}
	router := newAuthRouter(users)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		userID *uuid.UUID
	}{
		{name: "public anonymous", path: "/public", status: http.StatusOK},
		{name: "public with bad token stays anonymous", path: "/public", token: "nope", status: http.StatusOK},
		{name: "public sees caller", path: "/public", token: "student", status: http.StatusOK, userID: &student.ID},
		{name: "private without token", path: "/private", status: http.StatusUnauthorized},
		{name: "private with bad token", path: "/private", token: "nope", status: http.StatusUnauthorized},
		{name: "private with token", path: "/private", token: "student", status: http.StatusOK, userID: &student.ID},
		{name: "admin route rejects student", path: "/admin", token: "student", status: http.StatusForbidden},
		{name: "admin route admits admin", path: "/admin", token: "admin", status: http.StatusOK, userID: &admin.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tt.path, tt.token, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
			if tt.status != http.StatusOK {
				return
			}

			var body struct {
				UserID *string `json:"user_id"`
			}
			decode(t, rec, &body)
			switch {
			case tt.userID == nil && body.UserID != nil:
				t.Errorf("user_id = %s, want none", *body.UserID)
			case tt.userID != nil && (body.UserID == nil || *body.UserID != tt.userID.String()):
				t.Errorf("user_id = %v, want %s", body.UserID, tt.userID)
			}
		})
	}
}

func TestAuthMiddlewareReusesOptionalLookup(t *testing.T) {
	users := &stubUsers{tokens: map[string]*models.User{"student": newUser(models.RoleStudent)}}
	router := newAuthRouter(users)

	rec := doRequest(t, router, http.MethodGet, "/private", "student", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if users.calls != 1 {
		t.Errorf("Authenticate called %d times, want 1", users.calls)
	}
}
