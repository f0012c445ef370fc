package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/repository"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOriginRequired = errors.New("storage origin required")
	ErrKeyRequired    = errors.New("storage key required")
	ErrClosed         = errors.New("storage closed")
)

// Change 一次成功写入或删除后发出的变更通知
// Writer 为写入方标签页，订阅方应忽略自己写入的变更。
type Change struct {
	Origin string    `json:"origin"`
	Key    string    `json:"key"`
	Writer string    `json:"writer"`
	At     time.Time `json:"at"`
}

// Store 按来源隔离的字符串键值存储
type Store interface {
	Get(ctx context.Context, origin, key string) (string, bool, error)
	Set(ctx context.Context, origin, key, value, writer string) error
	Remove(ctx context.Context, origin, key, writer string) error
	// Watch 订阅来源下的全部变更，ctx 结束时关闭通道
	Watch(ctx context.Context, origin string) (<-chan Change, error)
	Close() error
}

// Evictor 支持清理闲置来源的存储
type Evictor interface {
	EvictIdle(ctx context.Context, before time.Time) (int64, error)
}

// Options 存储驱动依赖
type Options struct {
	Driver      string
	Repo        repository.StorageRepository
	Redis       *redis.Client
	RedisPrefix string
	Retention   time.Duration
}

// New 按驱动创建存储
func New(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case constants.StorageDriverMemory:
		return NewMemoryStore(), nil
	case "", constants.StorageDriverDatabase:
		if opts.Repo == nil {
			return nil, fmt.Errorf("storage driver database requires a repository")
		}
		return NewDatabaseStore(opts.Repo), nil
	case constants.StorageDriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("storage driver redis requires redis.enabled")
		}
		return NewRedisStore(opts.Redis, opts.RedisPrefix, opts.Retention), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}

func validate(origin, key string) error {
	if strings.TrimSpace(origin) == "" {
		return ErrOriginRequired
	}
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	return nil
}
