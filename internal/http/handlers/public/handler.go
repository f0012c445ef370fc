package public

import "github.com/bean-boutique/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：商品目录、购物车与欢迎弹窗接口，均按购物者作用域隔离，无登录态。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
