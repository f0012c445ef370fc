package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/provider"
	"github.com/bean-boutique/internal/queue"
	"github.com/bean-boutique/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskStorageEvictIdle, c.handleStorageEvictIdle)
}

func (c *Consumer) handleStorageEvictIdle(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_storage_evict_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseStorageEvictIdlePayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_storage_evict_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.RetentionService == nil {
		logger.Debugw("worker_storage_evict_skip_service_nil")
		return nil
	}
	removed, err := c.RetentionService.EvictIdle(ctx, payload.Before())
	if err != nil {
		if errors.Is(err, service.ErrRetentionDisabled) {
			logger.Debugw("worker_storage_evict_skip_unsupported_driver", "driver", c.Config.Storage.Driver)
			return nil
		}
		logger.Warnw("worker_storage_evict_failed", "before_unix", payload.BeforeUnix, "error", err)
		return err
	}
	logger.Debugw("worker_storage_evict_done", "before_unix", payload.BeforeUnix, "removed", removed)
	return nil
}
