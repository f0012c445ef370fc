package storage

import (
	"context"
	"sync"
	"time"

	"github.com/bean-boutique/internal/constants"
)

type memoryEntry struct {
	value     string
	updatedAt time.Time
}

// MemoryStore 进程内存储，重启即丢失
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]memoryEntry
	hub    *hub
	now    func() time.Time
	closed bool
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]memoryEntry),
		hub:  newHub(constants.StorageDriverMemory),
		now:  time.Now,
	}
}

// Get 读取值
func (s *MemoryStore) Get(_ context.Context, origin, key string) (string, bool, error) {
	if err := validate(origin, key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	entry, ok := s.data[origin][key]
	return entry.value, ok, nil
}

// Set 整值写入并通知订阅者
func (s *MemoryStore) Set(_ context.Context, origin, key, value, writer string) error {
	if err := validate(origin, key); err != nil {
		return err
	}
	now := s.now()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	entries, ok := s.data[origin]
	if !ok {
		entries = make(map[string]memoryEntry)
		s.data[origin] = entries
	}
	entries[key] = memoryEntry{value: value, updatedAt: now}
	s.mu.Unlock()

	s.hub.publish(Change{Origin: origin, Key: key, Writer: writer, At: now})
	return nil
}

// Remove 删除键并通知订阅者
func (s *MemoryStore) Remove(_ context.Context, origin, key, writer string) error {
	if err := validate(origin, key); err != nil {
		return err
	}
	now := s.now()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if entries, ok := s.data[origin]; ok {
		delete(entries, key)
		if len(entries) == 0 {
			delete(s.data, origin)
		}
	}
	s.mu.Unlock()

	s.hub.publish(Change{Origin: origin, Key: key, Writer: writer, At: now})
	return nil
}

// Watch 订阅来源变更
func (s *MemoryStore) Watch(ctx context.Context, origin string) (<-chan Change, error) {
	if err := validate(origin, "*"); err != nil {
		return nil, err
	}
	return s.hub.watch(ctx, origin)
}

// EvictIdle 清理最后写入早于 before 的来源
func (s *MemoryStore) EvictIdle(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for origin, entries := range s.data {
		latest := time.Time{}
		for _, entry := range entries {
			if entry.updatedAt.After(latest) {
				latest = entry.updatedAt
			}
		}
		if latest.Before(before) {
			removed += int64(len(entries))
			delete(s.data, origin)
		}
	}
	return removed, nil
}

// Close 关闭存储并结束所有订阅
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.hub.close()
	return nil
}
