package admin

import "github.com/polaroid-next/internal/provider"

// Handler 后台接口（订单履约、尺寸目录、用户、统计与角色授权）
// 路由层已完成 JWT 与 RBAC 校验
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
