package router

import (
	"fmt"
	"strings"

	"github.com/bean-boutique/internal/config"
	publichandlers "github.com/bean-boutique/internal/http/handlers/public"
	handlershared "github.com/bean-boutique/internal/http/handlers/shared"
	"github.com/bean-boutique/internal/http/response"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/metrics"
	"github.com/bean-boutique/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultShopperCookieDays = 365

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bb"
	}
	cartRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart", redisPrefix),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}
	cartLimit := RateLimitMiddleware(c.Redis, cartRule, KeyByShopper)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok", "storage": cfg.Storage.Driver})
	})
	if cfg.Metrics.Enabled {
		metrics.MustRegister()
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	apiV1 := r.Group("/api/v1")
	{
		// 商品目录（无需作用域）
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/offers", publicHandler.GetOffers)
			public.GET("/coffees", publicHandler.ListCoffees)
			public.GET("/equipment", publicHandler.ListEquipment)
			public.GET("/equipment/categories", publicHandler.ListEquipmentCategories)
			public.GET("/products/:id", publicHandler.GetProduct)
		}

		// 购物者作用域接口
		scoped := apiV1.Group("")
		scoped.Use(ShopperScopeMiddleware(shopperCookieMaxAge(cfg)))
		{
			cart := scoped.Group("/cart")
			cart.GET("", publicHandler.GetCart)
			cart.GET("/badge", publicHandler.GetCartBadge)
			cart.GET("/events", publicHandler.CartEvents)
			cart.DELETE("", cartLimit, publicHandler.ClearCart)
			cart.POST("/items", cartLimit, publicHandler.AddCartItem)
			cart.PUT("/items/:id", cartLimit, publicHandler.UpdateCartItem)
			cart.DELETE("/items/:id", cartLimit, publicHandler.DeleteCartItem)
			cart.POST("/checkout", publicHandler.Checkout)

			welcome := scoped.Group("/welcome")
			welcome.GET("", publicHandler.GetWelcome)
			welcome.POST("/dismiss", publicHandler.DismissWelcome)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, handlershared.Message("error.not_found"))
	})

	return r
}

// shopperCookieMaxAge 购物者 Cookie 与存储保留期一致
func shopperCookieMaxAge(cfg *config.Config) int {
	days := cfg.Storage.RetentionDays
	if days <= 0 {
		days = defaultShopperCookieDays
	}
	return days * 24 * 60 * 60
}
