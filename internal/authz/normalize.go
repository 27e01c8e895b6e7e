package authz

import "strings"

const (
	apiV1Prefix = "/api/v1"
	rolePrefix  = "role:"
	anchorName  = "__anchor__"
	roleAnchor  = rolePrefix + anchorName
)

// NormalizeRole 角色名统一为 role:UPPER_SNAKE
func NormalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrRoleRequired
	}
	if name == anchorName {
		return roleAnchor, nil
	}
	return rolePrefix + strings.ToUpper(strings.ReplaceAll(name, " ", "_")), nil
}

// NormalizeObject 路由统一为以 / 开头且去掉 /api/v1 前缀
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	switch {
	case path == apiV1Prefix:
		return "/"
	case strings.HasPrefix(path, apiV1Prefix+"/"):
		return path[len(apiV1Prefix):]
	}
	return path
}

// NormalizeAction HTTP 方法大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
