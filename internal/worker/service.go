package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultEvictInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	evictInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer, evictInterval time.Duration) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	if evictInterval <= 0 {
		evictInterval = defaultEvictInterval
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = logger.Named("asynq")
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		evictInterval: evictInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.evictionEnabled() {
		go s.runEvictLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) evictionEnabled() bool {
	if s == nil || s.consumer == nil || s.consumer.Container == nil {
		return false
	}
	return s.consumer.RetentionService.Enabled() && s.consumer.QueueClient.Enabled()
}

func (s *Service) runEvictLoop(ctx context.Context) {
	runOnce := func() {
		if err := s.enqueueEviction(time.Now()); err != nil {
			logger.Warnw("worker_storage_evict_enqueue_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) enqueueEviction(now time.Time) error {
	cutoff := s.consumer.RetentionService.Cutoff(now).Truncate(s.evictInterval)
	return s.consumer.QueueClient.EnqueueStorageEvictIdle(queue.StorageEvictIdlePayload{
		BeforeUnix: cutoff.Unix(),
	}, s.evictInterval)
}
