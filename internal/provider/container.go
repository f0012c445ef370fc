package provider

import (
	"errors"
	"time"

	"github.com/bean-boutique/internal/cache"
	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/queue"
	"github.com/bean-boutique/internal/repository"
	"github.com/bean-boutique/internal/service"
	"github.com/bean-boutique/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	QueueClient *queue.Client

	// Repositories
	ProductRepo repository.ProductRepository
	StorageRepo repository.StorageRepository

	// 购物者本地存储
	Store storage.Store

	// Services
	CartNotifier     *service.CartNotifier
	CatalogService   *service.CatalogService
	CartService      *service.CartService
	CartWatcher      *service.CartWatcher
	WelcomeService   *service.WelcomeService
	RetentionService *service.StorageRetentionService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 在指定数据库连接上初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	// 初始化缓存
	redisClient, err := cache.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化存储
	if err := c.initStore(); err != nil {
		return nil, err
	}

	// 3. 初始化 Services
	c.initServices()

	return c, nil
}

// Retention 闲置来源保留时长，<= 0 表示不清理
func (c *Container) Retention() time.Duration {
	if c == nil || c.Config == nil || c.Config.Storage.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.Config.Storage.RetentionDays) * 24 * time.Hour
}

// Close 释放存储订阅与队列客户端
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.CartNotifier != nil {
		c.CartNotifier.Close()
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.QueueClient != nil {
		errs = append(errs, c.QueueClient.Close())
	}
	return errors.Join(errs...)
}

func (c *Container) initRepositories() {
	c.ProductRepo = repository.NewProductRepository(c.DB)
	c.StorageRepo = repository.NewStorageRepository(c.DB)
}

func (c *Container) initStore() error {
	store, err := storage.New(storage.Options{
		Driver:      c.Config.Storage.Driver,
		Repo:        c.StorageRepo,
		Redis:       c.Redis,
		RedisPrefix: c.Config.Redis.Prefix,
		Retention:   c.Retention(),
	})
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "driver", c.Config.Storage.Driver, "error", err)
		return err
	}
	c.Store = store
	logger.Infow("provider_storage_ready", "driver", c.Config.Storage.Driver)
	return nil
}

func (c *Container) initServices() {
	c.CartNotifier = service.NewCartNotifier()
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.Config.Catalog.SearchMinScore)
	c.CartService = service.NewCartService(c.Store, c.CartNotifier, c.CatalogService, c.Config.Cart.StorageKey)
	c.CartWatcher = service.NewCartWatcher(c.CartService, c.Store, c.CartNotifier)
	c.WelcomeService = service.NewWelcomeService(c.Store, c.Config.Welcome.VisitedKey, c.Config.Welcome.OfferCode)
	c.RetentionService = service.NewStorageRetentionService(c.Store, c.Retention())
}
