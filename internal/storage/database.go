package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/repository"
)

// DatabaseStore 基于 local_storage_entries 表的持久化存储
// 变更通知只在本进程内分发。
type DatabaseStore struct {
	repo repository.StorageRepository
	hub  *hub
	now  func() time.Time
}

// NewDatabaseStore 创建数据库存储
func NewDatabaseStore(repo repository.StorageRepository) *DatabaseStore {
	return &DatabaseStore{
		repo: repo,
		hub:  newHub(constants.StorageDriverDatabase),
		now:  time.Now,
	}
}

// Get 读取值
func (s *DatabaseStore) Get(ctx context.Context, origin, key string) (string, bool, error) {
	if err := validate(origin, key); err != nil {
		return "", false, err
	}
	entry, err := s.repo.WithContext(ctx).Get(origin, key)
	if err != nil {
		return "", false, fmt.Errorf("load storage entry: %w", err)
	}
	if entry == nil {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Set 整值写入并通知订阅者
func (s *DatabaseStore) Set(ctx context.Context, origin, key, value, writer string) error {
	if err := validate(origin, key); err != nil {
		return err
	}
	now := s.now()
	entry := &models.LocalStorageEntry{
		Origin:    origin,
		Key:       key,
		Value:     value,
		Writer:    writer,
		UpdatedAt: now,
	}
	if err := s.repo.WithContext(ctx).Upsert(entry); err != nil {
		return fmt.Errorf("save storage entry: %w", err)
	}
	s.hub.publish(Change{Origin: origin, Key: key, Writer: writer, At: now})
	return nil
}

// Remove 删除键并通知订阅者
func (s *DatabaseStore) Remove(ctx context.Context, origin, key, writer string) error {
	if err := validate(origin, key); err != nil {
		return err
	}
	if _, err := s.repo.WithContext(ctx).Delete(origin, key); err != nil {
		return fmt.Errorf("delete storage entry: %w", err)
	}
	s.hub.publish(Change{Origin: origin, Key: key, Writer: writer, At: s.now()})
	return nil
}

// Watch 订阅来源变更
func (s *DatabaseStore) Watch(ctx context.Context, origin string) (<-chan Change, error) {
	if err := validate(origin, "*"); err != nil {
		return nil, err
	}
	return s.hub.watch(ctx, origin)
}

// EvictIdle 清理最后写入早于 before 的来源
func (s *DatabaseStore) EvictIdle(ctx context.Context, before time.Time) (int64, error) {
	removed, err := s.repo.WithContext(ctx).DeleteIdleOrigins(before)
	if err != nil {
		return 0, fmt.Errorf("evict idle origins: %w", err)
	}
	return removed, nil
}

// Close 结束所有订阅，数据库连接由调用方管理
func (s *DatabaseStore) Close() error {
	s.hub.close()
	return nil
}
