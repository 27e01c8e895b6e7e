package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildAdminPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	noop := func(c *gin.Context) {}
	engine.GET("/api/v1/admin/orders", noop)
	engine.PATCH("/api/v1/admin/orders/:id/status", noop)
	engine.GET("/api/v1/admin/authz/roles", noop)
	engine.GET("/api/v1/public/print-sizes", noop)
	engine.POST("/api/webhooks/toyyibpay", noop)

	items := buildAdminPermissionCatalog(engine)
	if len(items) != 3 {
		t.Fatalf("expected 3 admin permissions, got %d: %+v", len(items), items)
	}
	if items[0].Module != "authz" || items[0].Permission != "GET:/admin/authz/roles" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	for _, item := range items[1:] {
		if item.Module != "orders" {
			t.Fatalf("unexpected module: %+v", item)
		}
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/stats/overview":    "stats",
		"/admin/users/:id/role":    "users",
		"/admin/authz/roles/:role": "authz",
		"/admin":                   "admin",
		"":                         "system",
	}
	for object, want := range cases {
		if got := deriveAdminPermissionModule(object); got != want {
			t.Fatalf("module for %q: want %q got %q", object, want, got)
		}
	}
}
