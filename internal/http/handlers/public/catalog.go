package public

import (
	"strings"
	"time"

	"github.com/bean-boutique/internal/cache"
	handlershared "github.com/bean-boutique/internal/http/handlers/shared"
	"github.com/bean-boutique/internal/http/response"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取店铺公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data := map[string]interface{}{
		"currency":          h.Config.Cart.Currency,
		"currency_symbol":   h.Config.Cart.CurrencySymbol,
		"offer_code":        h.Config.Welcome.OfferCode,
		"checkout_enabled":  false,
		"max_line_quantity": h.Config.Cart.MaxLineQuantity,
	}
	categories, err := h.CatalogService.EquipmentCategories(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}
	data["equipment_categories"] = categories
	data["subscriptions"] = service.CurrentOffers().Subscriptions

	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}

// ListCoffees 咖啡列表，q 为空时返回全部，否则按匹配度排序
func (h *Handler) ListCoffees(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	items, err := h.CatalogService.ListCoffees(c.Request.Context(), query)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, gin.H{
		"query": query,
		"items": nonNilProducts(items),
		"total": len(items),
	})
}

// ListEquipment 器具列表，按分类与关键词过滤，可选分页
// total 为分页前的匹配总数。
func (h *Handler) ListEquipment(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	query := strings.TrimSpace(c.Query("q"))
	page, pageSize, paged := handlershared.ParsePagination(c)
	items, total, err := h.CatalogService.SearchEquipment(c.Request.Context(), service.EquipmentQuery{
		Category: category,
		Search:   query,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	data := gin.H{
		"category": category,
		"query":    query,
		"items":    nonNilProducts(items),
		"total":    total,
	}
	if paged {
		data["page"] = page
		data["page_size"] = pageSize
	}
	response.Success(c, data)
}

// GetOffers 订阅档位与常见问题（只读）
func (h *Handler) GetOffers(c *gin.Context) {
	response.Success(c, service.CurrentOffers())
}

// ListEquipmentCategories 器具分类
func (h *Handler) ListEquipmentCategories(c *gin.Context) {
	categories, err := h.CatalogService.EquipmentCategories(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetProduct 根据 id（slug）获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.CatalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

func nonNilProducts(items []models.Product) []models.Product {
	if items == nil {
		return []models.Product{}
	}
	return items
}
