package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/inkpost/internal/config"
)

// HTTPService 对外 API 服务
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}
	if cfg.ReadHeaderTimeoutSeconds > 0 {
		server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	}
	return &HTTPService{server: server}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Start 启动服务，请求上下文继承运行上下文
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭，等待进行中的请求完成
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
