package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bean-boutique/internal/cache"
	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于 Redis 哈希的存储
// 每个来源一个哈希 <prefix>:ls:<origin>，整体 TTL 即闲置保留期；
// 变更经 <prefix>:storage:<origin> 频道广播，多实例之间互相可见。
type RedisStore struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	watchers map[*watcher]struct{}
	closed   bool
}

// NewRedisStore 创建 Redis 存储，ttl <= 0 表示不过期
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   prefix,
		ttl:      ttl,
		now:      time.Now,
		watchers: make(map[*watcher]struct{}),
	}
}

func (s *RedisStore) dataKey(origin string) string {
	return cache.BuildKeyWithPrefix(s.prefix, "ls:"+origin)
}

func (s *RedisStore) channel(origin string) string {
	return cache.BuildKeyWithPrefix(s.prefix, "storage:"+origin)
}

// Get 读取值
func (s *RedisStore) Get(ctx context.Context, origin, key string) (string, bool, error) {
	if err := validate(origin, key); err != nil {
		return "", false, err
	}
	val, err := s.client.HGet(ctx, s.dataKey(origin), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return val, true, nil
}

// Set 整值写入；写入、续期与广播在同一个 MULTI 中执行
func (s *RedisStore) Set(ctx context.Context, origin, key, value, writer string) error {
	if err := validate(origin, key); err != nil {
		return err
	}
	return s.apply(ctx, Change{Origin: origin, Key: key, Writer: writer, At: s.now()}, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, s.dataKey(origin), key, value)
	})
}

// Remove 删除键并广播
func (s *RedisStore) Remove(ctx context.Context, origin, key, writer string) error {
	if err := validate(origin, key); err != nil {
		return err
	}
	return s.apply(ctx, Change{Origin: origin, Key: key, Writer: writer, At: s.now()}, func(pipe redis.Pipeliner) {
		pipe.HDel(ctx, s.dataKey(origin), key)
	})
}

func (s *RedisStore) apply(ctx context.Context, change Change, write func(pipe redis.Pipeliner)) error {
	if s.isClosed() {
		return ErrClosed
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		write(pipe)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.dataKey(change.Origin), s.ttl)
		}
		pipe.Publish(ctx, s.channel(change.Origin), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write: %w", err)
	}
	metrics.StorageChanges.WithLabelValues(constants.StorageDriverRedis).Inc()
	return nil
}

// Watch 订阅来源变更，返回前已确认订阅生效
func (s *RedisStore) Watch(ctx context.Context, origin string) (<-chan Change, error) {
	if err := validate(origin, "*"); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, ErrClosed
	}
	pubsub := s.client.Subscribe(ctx, s.channel(origin))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	w := newWatcher(ctx)
	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	messages := pubsub.Channel()
	go func() {
		for {
			select {
			case <-w.ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					w.stop()
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					logger.Warnw("storage_change_decode_failed", "origin", origin, "error", err)
					continue
				}
				w.push(change)
			}
		}
	}()
	go func() {
		w.run()
		_ = pubsub.Close()
		s.mu.Lock()
		delete(s.watchers, w)
		s.mu.Unlock()
	}()
	return w.out, nil
}

// Close 结束所有订阅，Redis 客户端由调用方管理
func (s *RedisStore) Close() error {
	s.mu.Lock()
	s.closed = true
	targets := make([]*watcher, 0, len(s.watchers))
	for w := range s.watchers {
		targets = append(targets, w)
	}
	s.mu.Unlock()
	for _, w := range targets {
		w.stop()
	}
	return nil
}

func (s *RedisStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
