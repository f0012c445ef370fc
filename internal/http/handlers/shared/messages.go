package shared

import "fmt"

// messages 错误消息键到展示文案的映射
var messages = map[string]string{
	"error.bad_request":            "Invalid request",
	"error.not_found":              "Resource not found",
	"error.internal":               "Internal server error",
	"error.shopper_invalid":        "Shopper id is invalid",
	"error.cart_scope_invalid":     "Shopper or tab id is missing",
	"error.cart_item_invalid":      "Cart item is invalid",
	"error.quantity_invalid":       "Quantity must be between 1 and %d",
	"error.price_invalid":          "Price is invalid",
	"error.cart_fetch_failed":      "Failed to load cart",
	"error.cart_update_failed":     "Failed to update cart",
	"error.cart_events_failed":     "Cart event stream closed",
	"error.product_not_found":      "Product not found",
	"error.catalog_fetch_failed":   "Failed to load catalog",
	"error.checkout_unavailable":   "Checkout is not available yet",
	"error.welcome_fetch_failed":   "Failed to load welcome status",
	"error.welcome_update_failed":  "Failed to save welcome status",
	"error.config_fetch_failed":    "Failed to load config",
	"error.rate_limited":           "Too many requests, retry in %d seconds",
	"error.rate_limit_unavailable": "Rate limiter unavailable",
}

// Message 返回消息键对应文案，未登记的键原样返回
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}

// Messagef 带参数的消息文案
func Messagef(key string, args ...interface{}) string {
	return fmt.Sprintf(Message(key), args...)
}
