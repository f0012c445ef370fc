package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/metrics"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/storage"

	"github.com/shopspring/decimal"
)

const cartLockStripes = 64

// CartScope 购物车作用域：购物者来源 + 标签页
type CartScope struct {
	Origin string
	Tab    string
}

func (s CartScope) validate() error {
	if strings.TrimSpace(s.Origin) == "" || strings.TrimSpace(s.Tab) == "" {
		return ErrCartScopeInvalid
	}
	return nil
}

// CartView 由存储重新推导出的购物车视图
type CartView struct {
	Items     models.Cart  `json:"items"`
	ItemCount int          `json:"item_count"`
	Total     models.Money `json:"total"`
}

// ProductLookup 加购时查询商品目录
type ProductLookup interface {
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
}

// CartService 购物车服务
// 每次变更都是整份读取、修改、整份写回，写入成功后再通知同标签页订阅者。
// 同一标签页的操作串行执行；不同标签页之间不加锁，后写覆盖先写。
type CartService struct {
	store    storage.Store
	notifier *CartNotifier
	catalog  ProductLookup
	key      string
	locks    [cartLockStripes]sync.Mutex
}

// NewCartService 创建购物车服务
func NewCartService(store storage.Store, notifier *CartNotifier, catalog ProductLookup, storageKey string) *CartService {
	if strings.TrimSpace(storageKey) == "" {
		storageKey = "bb_cart"
	}
	return &CartService{
		store:    store,
		notifier: notifier,
		catalog:  catalog,
		key:      storageKey,
	}
}

// StorageKey 购物车存储键
func (s *CartService) StorageKey() string {
	return s.key
}

// Load 读取购物车，读取或解析失败时返回空购物车
func (s *CartService) Load(ctx context.Context, scope CartScope) (models.Cart, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	cart, err := s.read(ctx, scope)
	if err != nil {
		metrics.CartDecodeFallback.WithLabelValues("read_error").Inc()
		logger.Warnw("cart_read_failed", "origin", scope.Origin, "tab", scope.Tab, "error", err)
		return models.Cart{}, nil
	}
	return cart, nil
}

// View 读取购物车并计算数量与总价
func (s *CartService) View(ctx context.Context, scope CartScope) (CartView, error) {
	cart, err := s.Load(ctx, scope)
	if err != nil {
		return CartView{}, err
	}
	return newCartView(cart), nil
}

// Write 整份写入购物车并通知
func (s *CartService) Write(ctx context.Context, scope CartScope, cart models.Cart) error {
	if err := scope.validate(); err != nil {
		return err
	}
	unlock := s.lock(scope)
	defer unlock()
	if err := s.persist(ctx, scope, cart); err != nil {
		return err
	}
	s.afterWrite(scope, constants.CartOpWrite)
	return nil
}

// AddItem 加购：同 id 累加数量，否则追加新行
// 单价必须非负；quantity <= 0 时不做任何变更。
func (s *CartService) AddItem(ctx context.Context, scope CartScope, item models.CartLine, unitPrice float64, quantity int) (models.Cart, error) {
	if strings.TrimSpace(item.ID) == "" {
		return nil, ErrCartItemInvalid
	}
	if !ValidUnitPrice(unitPrice) {
		return nil, ErrPriceInvalid
	}
	if quantity <= 0 {
		return s.Load(ctx, scope)
	}
	return s.mutate(ctx, scope, constants.CartOpAdd, func(cart models.Cart) models.Cart {
		return ledgerAdd(cart, item, unitPrice, quantity)
	})
}

// AddProduct 从商品目录复制字段后加购
func (s *CartService) AddProduct(ctx context.Context, scope CartScope, productID string, quantity int) (models.Cart, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if s.catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	product, err := s.catalog.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	line, price := cartLineFromProduct(product)
	return s.AddItem(ctx, scope, line, price, quantity)
}

// SetQuantity 修改数量，<= 0 等同删除；id 不存在时仍写入并通知
func (s *CartService) SetQuantity(ctx context.Context, scope CartScope, id string, quantity int) (models.Cart, error) {
	return s.mutate(ctx, scope, constants.CartOpSetQuantity, func(cart models.Cart) models.Cart {
		return ledgerSetQuantity(cart, id, quantity)
	})
}

// RemoveItem 删除行，id 不存在时仍写入并通知
func (s *CartService) RemoveItem(ctx context.Context, scope CartScope, id string) (models.Cart, error) {
	return s.mutate(ctx, scope, constants.CartOpRemove, func(cart models.Cart) models.Cart {
		return ledgerRemove(cart, id)
	})
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, scope CartScope) (models.Cart, error) {
	return s.mutate(ctx, scope, constants.CartOpClear, ledgerClear)
}

// GetTotal 总价（单价 × 数量之和）
func (s *CartService) GetTotal(ctx context.Context, scope CartScope) (decimal.Decimal, error) {
	cart, err := s.Load(ctx, scope)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}

// GetItemCount 商品件数
func (s *CartService) GetItemCount(ctx context.Context, scope CartScope) (int, error) {
	cart, err := s.Load(ctx, scope)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

func (s *CartService) mutate(ctx context.Context, scope CartScope, op string, apply func(models.Cart) models.Cart) (models.Cart, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	unlock := s.lock(scope)
	defer unlock()

	// 读取失败时不能以空购物车为基础写回，否则会覆盖真实数据
	current, err := s.read(ctx, scope)
	if err != nil {
		logger.Errorw("cart_read_failed", "op", op, "origin", scope.Origin, "tab", scope.Tab, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCartReadFailed, err)
	}
	next := apply(current)
	if err := s.persist(ctx, scope, next); err != nil {
		return nil, err
	}
	s.afterWrite(scope, op)
	return next, nil
}

// read 返回存储读取错误；缺失或损坏的文档按空购物车处理
func (s *CartService) read(ctx context.Context, scope CartScope) (models.Cart, error) {
	raw, ok, err := s.store.Get(ctx, scope.Origin, s.key)
	if err != nil {
		return nil, err
	}
	result := DecodeCart(raw, ok)
	if result.Status == CartDecodeCorrupt {
		metrics.CartDecodeFallback.WithLabelValues("corrupt").Inc()
		logger.Warnw("cart_decode_fallback", "origin", scope.Origin, "tab", scope.Tab, "error", result.Err)
	}
	return result.Cart, nil
}

func (s *CartService) persist(ctx context.Context, scope CartScope, cart models.Cart) error {
	payload, err := EncodeCart(cart)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCartPersistFailed, err)
	}
	if err := s.store.Set(ctx, scope.Origin, s.key, payload, scope.Tab); err != nil {
		logger.Errorw("cart_persist_failed", "origin", scope.Origin, "tab", scope.Tab, "error", err)
		return fmt.Errorf("%w: %w", ErrCartPersistFailed, err)
	}
	return nil
}

func (s *CartService) afterWrite(scope CartScope, op string) {
	metrics.CartMutations.WithLabelValues(op).Inc()
	if s.notifier != nil {
		s.notifier.Publish(scope.Origin, scope.Tab)
	}
	logger.Debugw("cart_mutation", "op", op, "origin", scope.Origin, "tab", scope.Tab)
}

func (s *CartService) lock(scope CartScope) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(scope.Origin))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(scope.Tab))
	mu := &s.locks[h.Sum32()%cartLockStripes]
	mu.Lock()
	return mu.Unlock
}

func newCartView(cart models.Cart) CartView {
	if cart == nil {
		cart = models.Cart{}
	}
	return CartView{
		Items:     cart,
		ItemCount: cart.ItemCount(),
		Total:     models.NewMoneyFromDecimal(cart.Total()),
	}
}

// ValidUnitPrice 单价必须是非负有限数
func ValidUnitPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price >= 0
}
