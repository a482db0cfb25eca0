package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/authz"
	"github.com/agromate/agromate-api/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRoleGateTest(t *testing.T) *authz.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:role_gate_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return svc
}

func newRoleGateRouter(svc *authz.Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set("user_id", uint(1))
			c.Set(userRoleContextKey, role)
		}
		c.Next()
	})
	r.Use(RoleGateMiddleware(svc))
	r.GET("/api/v1/dashboard/buyer/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRoleGateAllowsOwnDashboard(t *testing.T) {
	svc := setupRoleGateTest(t)
	r := newRoleGateRouter(svc, constants.RoleBuyer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/buyer/cart", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoleGateRedirectsWrongRoleHome(t *testing.T) {
	svc := setupRoleGateTest(t)
	r := newRoleGateRouter(svc, constants.RoleFarmer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/buyer/cart", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status want 403 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Data.Redirect != "/dashboard/farmer" {
		t.Fatalf("redirect want /dashboard/farmer got %s", resp.Data.Redirect)
	}
}

func TestRoleGateUnauthenticatedGetsLoginRedirect(t *testing.T) {
	svc := setupRoleGateTest(t)
	r := newRoleGateRouter(svc, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/buyer/cart", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	var resp struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Data.Redirect != "/login" {
		t.Fatalf("redirect want /login got %s", resp.Data.Redirect)
	}
}
