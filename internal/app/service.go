package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 可启停的后台服务
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type closer struct {
	name string
	fn   func() error
}

// Runner 并行运行服务，任一服务退出即整体关闭
type Runner struct {
	services []Service
	closers  []closer
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	r := &Runner{}
	for _, svc := range services {
		r.Add(svc)
	}
	return r
}

// Add 注册服务，nil 被忽略
func (r *Runner) Add(svc Service) {
	if svc == nil {
		return
	}
	r.services = append(r.services, svc)
}

// OnClose 注册在全部服务停止后释放的资源，按注册的逆序执行
func (r *Runner) OnClose(name string, fn func() error) {
	if fn == nil {
		return
	}
	r.closers = append(r.closers, closer{name: name, fn: fn})
}

// Len 已注册服务数量
func (r *Runner) Len() int {
	if r == nil {
		return 0
	}
	return len(r.services)
}

// Names 已注册服务名称
func (r *Runner) Names() []string {
	names := make([]string, 0, r.Len())
	for _, svc := range r.services {
		names = append(names, svc.Name())
	}
	return names
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 启动全部服务并阻塞到上下文结束或某个服务退出
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r.Len() == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			log.Infow("service_start", "service", svc.Name())
			errCh <- svc.Start(ctx)
			log.Infow("service_exit", "service", svc.Name())
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case runErr = <-errCh:
	}
	cancel()

	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	for _, svc := range r.services {
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].fn(); err != nil {
			log.Warnw("resource_close_failed", "resource", r.closers[i].name, "error", err)
		}
	}

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
