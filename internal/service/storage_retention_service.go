package service

import (
	"context"
	"time"

	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/metrics"
	"github.com/bean-boutique/internal/storage"
)

// StorageRetentionService 清理长期闲置的购物者存储
type StorageRetentionService struct {
	store     storage.Store
	retention time.Duration
}

// NewStorageRetentionService 创建保留期清理服务，retention <= 0 表示不清理
func NewStorageRetentionService(store storage.Store, retention time.Duration) *StorageRetentionService {
	return &StorageRetentionService{store: store, retention: retention}
}

// Cutoff 计算闲置截止时间
func (s *StorageRetentionService) Cutoff(now time.Time) time.Time {
	return now.Add(-s.retention)
}

// Enabled 驱动支持清理且配置了保留期
func (s *StorageRetentionService) Enabled() bool {
	if s == nil || s.retention <= 0 {
		return false
	}
	_, ok := s.store.(storage.Evictor)
	return ok
}

// EvictIdle 删除最后写入早于 before 的来源
func (s *StorageRetentionService) EvictIdle(ctx context.Context, before time.Time) (int64, error) {
	evictor, ok := s.store.(storage.Evictor)
	if !ok {
		return 0, ErrRetentionDisabled
	}
	removed, err := evictor.EvictIdle(ctx, before)
	if err != nil {
		logger.Errorw("storage_evict_failed", "before", before, "error", err)
		return 0, err
	}
	metrics.StorageEvicted.Add(float64(removed))
	logger.Infow("storage_evicted", "before", before, "removed", removed)
	return removed, nil
}
