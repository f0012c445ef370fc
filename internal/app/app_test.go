package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/provider"
	"github.com/bean-boutique/internal/seed"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	name     string
	startErr error
	mu       sync.Mutex
	stopped  bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeService) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	svc := &fakeService{name: "fake"}
	runner := NewRunner(svc)
	var order []string
	runner.OnStop(func() error { order = append(order, "first"); return nil })
	runner.OnStop(func() error { order = append(order, "second"); return errors.New("ignored") })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := runner.Run(ctx, time.Second, zap.NewNop().Sugar())
	assert.True(t, err == nil || errors.Is(err, context.DeadlineExceeded))
	assert.True(t, svc.isStopped())
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestRunnerReturnsServiceError(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeService{name: "failing", startErr: boom}
	healthy := &fakeService{name: "healthy"}

	err := NewRunner(failing, healthy).Run(context.Background(), time.Second, nil)
	assert.ErrorIs(t, err, boom)
	assert.True(t, healthy.isStopped())
}

func TestRunnerWithoutServices(t *testing.T) {
	assert.Error(t, NewRunner().Run(context.Background(), time.Second, nil))
	assert.Error(t, RunWithOptions(nil, Options{}))
}

func newTestContainer(t *testing.T, queueEnabled bool) (*config.Config, *provider.Container) {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("storage.driver", "memory")
	v.Set("queue.enabled", queueEnabled)
	cfg, err := config.Unmarshal(v)
	require.NoError(t, err)

	db, err := models.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared", models.DBPoolConfig{MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	container, err := provider.NewContainerWithDB(cfg, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return cfg, container
}

func TestBuildServicesSkipsWorkerWhenQueueDisabled(t *testing.T) {
	cfg, container := newTestContainer(t, false)

	runner, err := buildServices(cfg, ModeAll, container)
	require.NoError(t, err)
	require.Len(t, runner.services, 1)
	assert.Equal(t, "http", runner.services[0].Name())
	assert.Len(t, runner.stopHooks, 1)

	_, err = buildServices(cfg, ModeWorker, container)
	assert.Error(t, err)
}

func TestSeedAndReloadRefreshesBuiltIndex(t *testing.T) {
	_, container := newTestContainer(t, false)
	ctx := context.Background()

	// 先构建一次空索引，模拟服务已开始处理请求
	coffees, err := container.CatalogService.ListCoffees(ctx, "")
	require.NoError(t, err)
	require.Empty(t, coffees)

	count, err := seedAndReload(ctx, container)
	require.NoError(t, err)
	assert.Equal(t, len(seed.Catalog()), count)

	coffees, err = container.CatalogService.ListCoffees(ctx, "")
	require.NoError(t, err)
	assert.Len(t, coffees, len(seed.Coffees()))

	found, err := container.CatalogService.ListCoffees(ctx, "kenya")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "kenya-aa", found[0].Slug)
}

func TestBuildServicesUnknownMode(t *testing.T) {
	cfg, container := newTestContainer(t, false)
	_, err := buildServices(cfg, "batch", container)
	assert.Error(t, err)
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{})
	assert.Equal(t, ModeAll, opts.Mode)
	assert.Equal(t, 10*time.Second, opts.ShutdownTimeout)
	assert.NotNil(t, opts.Logger)
}

func TestHTTPServiceShutdownCancelsRequestContext(t *testing.T) {
	svc := NewHTTPService("127.0.0.1:0", nil)
	ctx := svc.server.BaseContext(nil)
	require.NoError(t, svc.Stop(context.Background()))
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("base context should be cancelled on shutdown")
	}
}
