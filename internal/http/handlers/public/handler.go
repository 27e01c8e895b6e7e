package public

import "github.com/polaroid-next/internal/provider"

// Handler 顾客侧接口：下单、查单、尺寸目录、注册登录与支付回调
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
