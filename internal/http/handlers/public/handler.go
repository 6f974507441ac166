package public

import "github.com/inkpost/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于游客、读者、作者与审核员侧 API，后台注册表接口见 admin 包。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
