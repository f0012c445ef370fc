package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bean-boutique/internal/config"
	"github.com/bean-boutique/internal/constants"
	handlershared "github.com/bean-boutique/internal/http/handlers/shared"
	"github.com/bean-boutique/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const maxScopeIDLength = 128

// exposedHeaders 浏览器端需要读取的响应头
var exposedHeaders = strings.Join([]string{requestIDHeader, constants.HeaderShopperID, constants.HeaderTabID}, ", ")

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			constants.HeaderShopperID,
			constants.HeaderTabID,
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", exposedHeaders)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// ShopperScopeMiddleware 购物者作用域中间件
// origin 取 X-Shopper-ID 或 bb_shopper Cookie，缺失时生成并写入 Cookie；
// tab 取 X-Tab-ID 或 tab 查询参数，缺失时生成。两者都回写到响应头。
func ShopperScopeMiddleware(cookieMaxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopperID := strings.TrimSpace(c.GetHeader(constants.HeaderShopperID))
		if shopperID == "" {
			if cookie, err := c.Cookie(constants.CookieShopperID); err == nil {
				shopperID = strings.TrimSpace(cookie)
			}
		}
		tabID := strings.TrimSpace(c.GetHeader(constants.HeaderTabID))
		if tabID == "" {
			tabID = strings.TrimSpace(c.Query(constants.QueryTabID))
		}
		if (shopperID != "" && !validScopeID(shopperID)) || (tabID != "" && !validScopeID(tabID)) {
			response.BadRequest(c, handlershared.Message("error.shopper_invalid"))
			c.Abort()
			return
		}

		if shopperID == "" {
			shopperID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(constants.CookieShopperID, shopperID, cookieMaxAge, "/", "", c.Request.TLS != nil, true)
		}
		if tabID == "" {
			tabID = uuid.NewString()
		}

		c.Set(constants.ContextShopperID, shopperID)
		c.Set(constants.ContextTabID, tabID)
		c.Writer.Header().Set(constants.HeaderShopperID, shopperID)
		c.Writer.Header().Set(constants.HeaderTabID, tabID)
		c.Next()
	}
}

// validScopeID 作用域 id 会拼进存储键与频道名，只允许安全字符
func validScopeID(id string) bool {
	if id == "" || len(id) > maxScopeIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
