package app

import (
	"context"
	"errors"
	"time"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/provider"
	"github.com/bean-boutique/internal/router"
	"github.com/bean-boutique/internal/seed"
	"github.com/bean-boutique/internal/worker"
)

// BuildRunner 构建服务运行器，seedCatalog 为 true 时先写入默认商品目录
func BuildRunner(cfg *config.Config, mode string, seedCatalog bool) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	if seedCatalog {
		if _, err := seedAndReload(context.Background(), container); err != nil {
			_ = container.Close()
			return nil, err
		}
	}
	runner, err := buildServices(cfg, mode, container)
	if err != nil {
		_ = container.Close()
		return nil, err
	}
	return runner, nil
}

// seedAndReload 写入默认目录后让目录服务丢弃旧索引与商品缓存
func seedAndReload(ctx context.Context, container *provider.Container) (int, error) {
	count, err := seed.Run(container.ProductRepo)
	if err != nil {
		return 0, err
	}
	slugs := make([]string, 0, count)
	for _, product := range seed.Catalog() {
		slugs = append(slugs, product.Slug)
	}
	container.CatalogService.Reload(ctx, slugs...)
	logger.Infow("catalog_seeded", "products", count)
	return count, nil
}

func buildServices(cfg *config.Config, mode string, container *provider.Container) (*Runner, error) {
	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务；all 模式下队列未启用时只跑 API
	if mode == ModeAll || mode == ModeWorker {
		if !cfg.Queue.Enabled && mode == ModeAll {
			logger.Warnw("app_worker_skipped", "reason", "queue disabled")
		} else {
			consumer := worker.NewConsumer(container)
			interval := time.Duration(cfg.Storage.EvictIntervalSeconds) * time.Second
			workerService, err := worker.NewService(&cfg.Queue, consumer, interval)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnStop(container.Close)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode, opts.SeedCatalog)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode, "storage", opts.Config.Storage.Driver)
	return RunWithOptions(runner, opts)
}
