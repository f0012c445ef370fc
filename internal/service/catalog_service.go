package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bean-boutique/internal/cache"
	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/repository"
	"github.com/bean-boutique/internal/search"
)

const productCacheTTL = 10 * time.Minute

// CatalogService 商品目录服务
type CatalogService struct {
	repo     repository.ProductRepository
	minScore int

	mu      sync.Mutex
	index   search.Searcher
	coffees map[string]models.Product
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(repo repository.ProductRepository, minScore int) *CatalogService {
	return &CatalogService{repo: repo, minScore: minScore}
}

// ListCoffees 咖啡列表，空查询返回全部，否则按名称、产地、风味、冲煮方式、烘焙度模糊匹配排序
func (s *CatalogService) ListCoffees(ctx context.Context, query string) ([]models.Product, error) {
	index, coffees, err := s.coffeeIndex()
	if err != nil {
		return nil, err
	}
	results := index.Search(query)
	out := make([]models.Product, 0, len(results))
	for _, result := range results {
		if product, ok := coffees[result.ID]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

// EquipmentQuery 器具查询条件，PageSize <= 0 表示不分页
type EquipmentQuery struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

// ListEquipment 器具列表，空分类或 All 返回全部
func (s *CatalogService) ListEquipment(ctx context.Context, category string) ([]models.Product, error) {
	items, _, err := s.SearchEquipment(ctx, EquipmentQuery{Category: category})
	return items, err
}

// SearchEquipment 按分类与关键词查询器具，返回分页前总数
func (s *CatalogService) SearchEquipment(ctx context.Context, query EquipmentQuery) ([]models.Product, int64, error) {
	category := strings.TrimSpace(query.Category)
	if strings.EqualFold(category, constants.EquipmentCategoryAll) {
		category = ""
	}
	items, total, err := s.repo.List(repository.ProductListFilter{
		Kind:       constants.ProductKindEquipment,
		Category:   category,
		Search:     query.Search,
		Page:       query.Page,
		PageSize:   query.PageSize,
		OnlyActive: true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return items, total, nil
}

// EquipmentCategories 器具分类，All 在首位，其余按目录顺序去重
func (s *CatalogService) EquipmentCategories(ctx context.Context) ([]string, error) {
	items, err := s.repo.ListByKind(constants.ProductKindEquipment, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	categories := []string{constants.EquipmentCategoryAll}
	seen := map[string]struct{}{constants.EquipmentCategoryAll: {}}
	for _, item := range items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	return categories, nil
}

// GetProduct 按 slug 获取上架商品，启用 Redis 时走缓存
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	cacheKey := productCacheKey(slug)
	var cached models.Product
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("catalog_cache_get_failed", "slug", slug, "error", err)
	} else if hit {
		return &cached, nil
	}

	product, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := cache.SetJSON(ctx, cacheKey, product, productCacheTTL); err != nil {
		logger.Warnw("catalog_cache_set_failed", "slug", slug, "error", err)
	}
	return product, nil
}

// Reload 丢弃已构建的检索索引与商品缓存，下次查询时重建
// slugs 为额外需要失效的商品（例如刚写入的器具）。
func (s *CatalogService) Reload(ctx context.Context, slugs ...string) {
	s.mu.Lock()
	coffees := s.coffees
	s.index = nil
	s.coffees = nil
	s.mu.Unlock()

	seen := make(map[string]struct{}, len(coffees)+len(slugs))
	keys := make([]string, 0, len(coffees)+len(slugs))
	for slug := range coffees {
		seen[slug] = struct{}{}
		keys = append(keys, productCacheKey(slug))
	}
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok || slug == "" {
			continue
		}
		seen[slug] = struct{}{}
		keys = append(keys, productCacheKey(slug))
	}
	if len(keys) == 0 {
		return
	}
	if err := cache.Del(ctx, keys...); err != nil {
		logger.Warnw("catalog_cache_del_failed", "error", err)
	}
}

func (s *CatalogService) coffeeIndex() (search.Searcher, map[string]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil {
		return s.index, s.coffees, nil
	}
	items, err := s.repo.ListByKind(constants.ProductKindCoffee, true)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	docs := make([]search.Document, 0, len(items))
	coffees := make(map[string]models.Product, len(items))
	for _, item := range items {
		docs = append(docs, search.Document{
			ID:     item.Slug,
			Fields: []string{item.Name, item.Origin, item.Notes, item.Method, item.Roast},
		})
		coffees[item.Slug] = item
	}
	s.index = search.NewIndex(docs, search.WithMinScore(s.minScore))
	s.coffees = coffees
	logger.Debugw("catalog_index_built", "documents", len(docs))
	return s.index, s.coffees, nil
}

func productCacheKey(slug string) string {
	return "catalog:product:" + slug
}

// cartLineFromProduct 加购时复制商品字段，描述类字段原样保存在 Extra 中
func cartLineFromProduct(product *models.Product) (models.CartLine, float64) {
	line := models.CartLine{
		ID:       product.Slug,
		Name:     product.Name,
		Image:    product.Image,
		Category: product.Category,
	}
	extras := map[string]string{
		"origin":      product.Origin,
		"roast":       product.Roast,
		"notes":       product.Notes,
		"method":      product.Method,
		"tip":         product.Tip,
		"description": product.Description,
	}
	for key, value := range extras {
		if value == "" {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			continue
		}
		if line.Extra == nil {
			line.Extra = make(map[string]json.RawMessage)
		}
		line.Extra[key] = raw
	}
	return line, product.PriceAmount.InexactFloat64()
}
