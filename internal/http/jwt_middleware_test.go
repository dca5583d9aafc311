package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hrdesk/internal/domain"
	"hrdesk/internal/service"
)

func newTestJWT() *service.JWTService {
	return service.NewJWTServiceWithStore("abc123", 15*time.Minute, 30*time.Minute, service.NewMemoryRefreshTokenStore())
}

func issueToken(t *testing.T, jwtSvc *service.JWTService, role domain.Role) service.TokenPair {
	t.Helper()
	pair, err := jwtSvc.GeneratePair(context.Background(), domain.Principal{
		EmployeeID: "EMP0001",
		Email:      "emp@example.com",
		Role:       role,
	})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	return pair
}

func protectedRouter(jwtSvc *service.JWTService, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthMiddleware(jwtSvc)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok || claims.EmployeeID != "EMP0001" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuthMiddleware_AllowsValidAccessToken(t *testing.T) {
	jwtSvc := newTestJWT()
	pair := issueToken(t, jwtSvc, domain.RoleEmployee)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	protectedRouter(jwtSvc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	jwtSvc := newTestJWT()
	pair := issueToken(t, jwtSvc, domain.RoleAdmin)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh token", "Bearer " + pair.RefreshToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protectedRouter(jwtSvc).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	jwtSvc := newTestJWT()

	cases := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleHR, http.StatusOK},
		{domain.RoleEmployee, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			pair := issueToken(t, jwtSvc, tc.role)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "bearer "+pair.AccessToken)
			rec := httptest.NewRecorder()
			protectedRouter(jwtSvc, domain.RoleAdmin, domain.RoleHR).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
