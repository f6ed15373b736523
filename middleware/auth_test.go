package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookingtour/errors"
	"bookingtour/services"
	"bookingtour/types"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, tokens *services.TokenService, roles ...string) string {
	t.Helper()
	token, _, err := tokens.GenerateToken(types.UserInfo{UserID: 8, Username: "hoa", Roles: roles})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)

	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		info := c.MustGet(types.ContextUserKey).(types.UserInfo)
		if c.GetUint("userID") != info.UserID {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, info.Username)
	})
	r.GET("/admin", AuthMiddleware(tokens, "Admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"foreign secret", "/me", "Bearer " + signToken(t, services.NewTokenService("other", time.Hour)), http.StatusUnauthorized},
		{"valid", "/me", "Bearer " + signToken(t, tokens), http.StatusOK},
		{"missing role", "/admin", "Bearer " + signToken(t, tokens, "Customer"), http.StatusForbidden},
		{"has role", "/admin", "Bearer " + signToken(t, tokens, "Customer", "Admin"), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.name == "valid" && w.Body.String() != "hoa" {
				t.Errorf("body = %q, want hoa", w.Body.String())
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		user       interface{}
		wantStatus int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"wrong type", "admin", http.StatusForbidden},
		{"customer", types.UserInfo{UserID: 1, Roles: []string{"Customer"}}, http.StatusForbidden},
		{"staff", types.UserInfo{UserID: 1, Roles: []string{"Staff"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				if tt.user != nil {
					c.Set(types.ContextUserKey, tt.user)
				}
				c.Next()
			}, RoleMiddleware("Admin", "Staff"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(errors.NewAppError(errors.ErrCodeInvalidTransition, "Không thể chuyển trạng thái", nil))
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.ErrVoucherExpired)
		c.Status(http.StatusAccepted)
		c.Writer.WriteHeaderNow()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}
}

func TestSessionAndRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), SessionMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("sessionId")+"|"+c.GetString("requestId"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "sess-1")
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "sess-1|req-1" {
		t.Errorf("body = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(SessionHeader) == "" || w.Header().Get(RequestIDHeader) == "" {
		t.Errorf("generated ids missing from headers: %v", w.Header())
	}
}
