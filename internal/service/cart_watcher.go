package service

import (
	"context"

	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/metrics"
	"github.com/bean-boutique/internal/storage"
)

// CartWatcher 购物车视图收敛：启动时、同标签页 cart_updated、其它标签页写入购物车键时，
// 都从存储重新推导视图。
type CartWatcher struct {
	carts    *CartService
	store    storage.Store
	notifier *CartNotifier
}

// NewCartWatcher 创建视图监听器
func NewCartWatcher(carts *CartService, store storage.Store, notifier *CartNotifier) *CartWatcher {
	return &CartWatcher{carts: carts, store: store, notifier: notifier}
}

// Watch 阻塞直到 ctx 结束，期间每次需要刷新时调用 fn
// 存储订阅意外关闭时返回 storage.ErrClosed。
func (w *CartWatcher) Watch(ctx context.Context, scope CartScope, fn func(CartView)) error {
	if err := scope.validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := w.notifier.Subscribe(scope.Origin, scope.Tab)
	defer sub.Close()

	changes, err := w.store.Watch(ctx, scope.Origin)
	if err != nil {
		logger.Warnw("storage_watch_failed", "origin", scope.Origin, "tab", scope.Tab, "error", err)
		return err
	}

	metrics.CartWatchers.Inc()
	defer metrics.CartWatchers.Dec()

	refresh := func() {
		view, err := w.carts.View(ctx, scope)
		if err != nil {
			return
		}
		fn(view)
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sub.C():
			if !ok {
				return nil
			}
			refresh()
		case change, ok := <-changes:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return storage.ErrClosed
			}
			// 自己写入的变更已由 cart_updated 覆盖
			if change.Key != w.carts.StorageKey() || change.Writer == scope.Tab {
				continue
			}
			refresh()
		}
	}
}
