package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/provider"
	"github.com/bean-boutique/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsumer(t *testing.T, driver string, retentionDays int) *Consumer {
	t.Helper()
	db, err := models.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared", models.DBPoolConfig{MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{}
	cfg.Storage.Driver = driver
	cfg.Storage.RetentionDays = retentionDays
	cfg.Cart.StorageKey = "bb_cart"
	cfg.Welcome.VisitedKey = "bb_visited"

	container, err := provider.NewContainerWithDB(cfg, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return NewConsumer(container)
}

func TestHandleStorageEvictIdleRemovesIdleOrigins(t *testing.T) {
	consumer := newTestConsumer(t, "database", 30)
	ctx := context.Background()

	require.NoError(t, consumer.Store.Set(ctx, "idle", "bb_cart", `[]`, "tab-a"))
	require.NoError(t, consumer.Store.Set(ctx, "active", "bb_cart", `[]`, "tab-a"))
	old := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, consumer.DB.Model(&models.LocalStorageEntry{}).Where("origin = ?", "idle").UpdateColumn("updated_at", old).Error)

	task, err := queue.NewStorageEvictIdleTask(queue.StorageEvictIdlePayload{
		BeforeUnix: consumer.RetentionService.Cutoff(time.Now()).Unix(),
	})
	require.NoError(t, err)
	require.NoError(t, consumer.handleStorageEvictIdle(ctx, task))

	_, ok, err := consumer.Store.Get(ctx, "idle", "bb_cart")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = consumer.Store.Get(ctx, "active", "bb_cart")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHandleStorageEvictIdleRejectsBadPayload(t *testing.T) {
	consumer := newTestConsumer(t, "memory", 30)
	err := consumer.handleStorageEvictIdle(context.Background(), asynq.NewTask(queue.TaskStorageEvictIdle, []byte(`{"before_unix":"soon"}`)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleStorageEvictIdleNilTask(t *testing.T) {
	consumer := newTestConsumer(t, "memory", 30)
	assert.NoError(t, consumer.handleStorageEvictIdle(context.Background(), nil))
}

func TestNewServiceRequiresQueue(t *testing.T) {
	consumer := newTestConsumer(t, "memory", 30)
	_, err := NewService(&config.QueueConfig{Enabled: false}, consumer, time.Minute)
	assert.Error(t, err)
	_, err = NewService(&config.QueueConfig{Enabled: true}, nil, time.Minute)
	assert.Error(t, err)
}

func TestEvictionDisabledWithoutQueueClient(t *testing.T) {
	consumer := newTestConsumer(t, "memory", 30)
	svc := &Service{consumer: consumer, evictInterval: time.Minute}
	assert.False(t, svc.evictionEnabled())
}
