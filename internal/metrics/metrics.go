package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CartMutations 购物车变更次数（按操作）
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Number of persisted cart mutations",
		},
		[]string{"op"}, // add|set_quantity|remove|clear|write
	)
	// CartDecodeFallback 购物车读取回退为空的次数
	CartDecodeFallback = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_decode_fallback_total",
			Help: "Number of cart reads that fell back to an empty cart",
		},
		[]string{"reason"}, // corrupt|read_error
	)
)

var (
	StorageChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_changes_total",
			Help: "Number of storage change notifications emitted",
		},
		[]string{"driver"},
	)
	StorageEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storage_evicted_total",
			Help: "Number of storage entries removed by retention sweeps",
		},
	)
	CartWatchers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_watchers",
			Help: "Number of active cart view watchers",
		},
	)
)

var registerOnce sync.Once

// MustRegister 注册到默认 Registry，重复调用安全
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CartMutations, CartDecodeFallback, StorageChanges, StorageEvicted, CartWatchers)
	})
}
