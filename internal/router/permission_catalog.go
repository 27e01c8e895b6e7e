package router

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/polaroid-next/internal/authz"

	"github.com/gin-gonic/gin"
)

const adminRoutePrefix = "/api/v1/admin/"

// adminPermissionCatalogItem 后台可授权的接口项，供角色配置页勾选
type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	items := []adminPermissionCatalogItem{}
	if engine == nil {
		return items
	}

	seen := map[string]bool{}
	for _, route := range engine.Routes() {
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if !grantableMethod(method) || !strings.HasPrefix(route.Path, adminRoutePrefix) {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		permission := method + ":" + object
		if seen[permission] {
			continue
		}
		seen[permission] = true
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	slices.SortFunc(items, func(a, b adminPermissionCatalogItem) int {
		return cmp.Or(
			cmp.Compare(a.Module, b.Module),
			cmp.Compare(a.Object, b.Object),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return items
}

func grantableMethod(method string) bool {
	switch method {
	case "", http.MethodOptions, http.MethodHead:
		return false
	}
	return true
}

// deriveAdminPermissionModule 取 /admin 后的第一段作为模块名
func deriveAdminPermissionModule(object string) string {
	trimmed := strings.Trim(strings.TrimSpace(object), "/")
	if trimmed == "" {
		return "system"
	}
	first, rest, found := strings.Cut(trimmed, "/")
	if first != "admin" || !found {
		return first
	}
	module, _, _ := strings.Cut(rest, "/")
	if module == "" {
		return first
	}
	return module
}
