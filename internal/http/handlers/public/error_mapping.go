package public

import (
	"errors"

	"github.com/bean-boutique/internal/http/response"
	"github.com/bean-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrCartScopeInvalid, code: response.CodeBadRequest, key: "error.cart_scope_invalid"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrCartReadFailed, code: response.CodeInternal, key: "error.cart_update_failed"},
}

var cartAddExtraErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrPriceInvalid, code: response.CodeBadRequest, key: "error.price_invalid"},
	{target: service.ErrCatalogUnavailable, code: response.CodeInternal, key: "error.catalog_fetch_failed"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var welcomeErrorRules = []mappedHandlerError{
	{target: service.ErrCartScopeInvalid, code: response.CodeBadRequest, key: "error.cart_scope_invalid"},
}

func respondCartUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCartAddError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartCommonErrorRules, cartAddExtraErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_fetch_failed")
}

func respondWelcomeError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, welcomeErrorRules, response.CodeInternal, fallbackKey)
}
