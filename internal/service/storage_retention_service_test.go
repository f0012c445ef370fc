package service

import (
	"context"
	"testing"
	"time"

	"github.com/bean-boutique/internal/metrics"
	"github.com/bean-boutique/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionEvictsIdleOrigins(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "o1", "bb_cart", "[]", "t"))

	svc := NewStorageRetentionService(store, 24*time.Hour)
	assert.True(t, svc.Enabled())

	before := testutil.ToFloat64(metrics.StorageEvicted)
	removed, err := svc.EvictIdle(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StorageEvicted))
}

func TestRetentionCutoff(t *testing.T) {
	svc := NewStorageRetentionService(nil, 48*time.Hour)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), svc.Cutoff(now))
}

func TestRetentionDisabledWithoutEvictor(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()
	// flakyStore 只嵌入 Store 接口，不暴露 EvictIdle
	svc := NewStorageRetentionService(&flakyStore{Store: store}, time.Hour)
	assert.False(t, svc.Enabled())
	_, err := svc.EvictIdle(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrRetentionDisabled)

	assert.False(t, NewStorageRetentionService(store, 0).Enabled())
}
