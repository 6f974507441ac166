package worker

import (
	"context"
	"errors"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 评论提醒等异步任务的消费服务
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: server, mux: mux}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费并阻塞到上下文结束，信号由外层 Runner 统一处理
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束后关闭
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
