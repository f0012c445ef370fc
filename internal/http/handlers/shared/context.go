package shared

import (
	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/http/response"
	"github.com/bean-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// GetContextString 从上下文读取非空字符串
func GetContextString(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	text, ok := value.(string)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// GetCartScope 读取购物者作用域中间件写入的 origin 与 tab，缺失时直接响应错误
func GetCartScope(c *gin.Context) (service.CartScope, bool) {
	origin, ok := GetContextString(c, constants.ContextShopperID)
	if !ok {
		RespondError(c, response.CodeBadRequest, "error.cart_scope_invalid", nil)
		return service.CartScope{}, false
	}
	tab, ok := GetContextString(c, constants.ContextTabID)
	if !ok {
		RespondError(c, response.CodeBadRequest, "error.cart_scope_invalid", nil)
		return service.CartScope{}, false
	}
	return service.CartScope{Origin: origin, Tab: tab}, true
}
