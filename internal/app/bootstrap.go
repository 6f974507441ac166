package app

import (
	"errors"

	"github.com/inkpost/internal/cache"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/router"
	"github.com/inkpost/internal/worker"
)

// BuildRunner 按启动模式组装 HTTP 与队列 worker 服务
func BuildRunner(opts Options) (*Runner, error) {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if opts.runsWorker() && !cfg.Queue.Enabled {
		if opts.Mode == ModeWorker {
			return nil, errors.New("worker mode requires queue.enabled=true")
		}
		opts.Logger.Infow("app_worker_skipped", "reason", "queue_disabled")
	}

	container := provider.NewContainer(cfg)
	runner := NewRunner()
	runner.OnClose("queue_client", container.QueueClient.Close)
	runner.OnClose("redis", cache.Close)

	if opts.servesAPI() {
		engine := router.SetupRouter(cfg, container)
		runner.Add(NewHTTPService(cfg.Server, engine))
	}

	if opts.runsWorker() && cfg.Queue.Enabled {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		runner.Add(workerService)
	}

	if runner.Len() == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"services", runner.Names(),
	)
	return RunWithOptions(runner, opts)
}
