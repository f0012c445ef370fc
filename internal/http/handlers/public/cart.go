package public

import (
	"context"
	"io"

	"github.com/bean-boutique/internal/constants"
	handlershared "github.com/bean-boutique/internal/http/handlers/shared"
	"github.com/bean-boutique/internal/http/response"
	"github.com/bean-boutique/internal/models"
	"github.com/bean-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求，quantity 缺省为 1
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// CartQuantityRequest 修改数量请求，<= 0 等同删除
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse 购物车响应
type CartResponse struct {
	service.CartView
	TotalDisplay    string `json:"total_display"`
	CheckoutEnabled bool   `json:"checkout_enabled"`
}

func (h *Handler) cartResponse(view service.CartView) CartResponse {
	return CartResponse{
		CartView:        view,
		TotalDisplay:    view.Total.Format(h.Config.Cart.CurrencySymbol),
		CheckoutEnabled: false,
	}
}

func (h *Handler) cartResponseFrom(cart models.Cart) CartResponse {
	if cart == nil {
		cart = models.Cart{}
	}
	return h.cartResponse(service.CartView{
		Items:     cart,
		ItemCount: cart.ItemCount(),
		Total:     models.NewMoneyFromDecimal(cart.Total()),
	})
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	view, err := h.CartService.View(c.Request.Context(), scope)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, h.cartResponse(view))
}

// GetCartBadge 导航角标：商品件数
func (h *Handler) GetCartBadge(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	count, err := h.CartService.GetItemCount(c.Request.Context(), scope)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, gin.H{"item_count": count})
}

// AddCartItem 从商品目录加购
func (h *Handler) AddCartItem(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 || quantity > h.Config.Cart.MaxLineQuantity {
		h.respondQuantityInvalid(c)
		return
	}
	cart, err := h.CartService.AddProduct(c.Request.Context(), scope, req.ProductID, quantity)
	if err != nil {
		respondCartAddError(c, err)
		return
	}
	response.Success(c, h.cartResponseFrom(cart))
}

// UpdateCartItem 修改购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if *req.Quantity > h.Config.Cart.MaxLineQuantity {
		h.respondQuantityInvalid(c)
		return
	}
	cart, err := h.CartService.SetQuantity(c.Request.Context(), scope, c.Param("id"), *req.Quantity)
	if err != nil {
		respondCartUpdateError(c, err)
		return
	}
	response.Success(c, h.cartResponseFrom(cart))
}

// DeleteCartItem 删除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	cart, err := h.CartService.RemoveItem(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondCartUpdateError(c, err)
		return
	}
	response.Success(c, h.cartResponseFrom(cart))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Clear(c.Request.Context(), scope)
	if err != nil {
		respondCartUpdateError(c, err)
		return
	}
	response.Success(c, h.cartResponseFrom(cart))
}

// Checkout 结账暂未开放
func (h *Handler) Checkout(c *gin.Context) {
	if _, ok := getCartScope(c); !ok {
		return
	}
	response.ErrorWithData(c, response.CodeServiceUnavailable, handlershared.Message("error.checkout_unavailable"), gin.H{
		"status": constants.CheckoutStatusUnavailable,
	})
}

// CartEvents SSE 推送购物车视图
// 连接建立时推送一次，之后本标签页变更或其它标签页写入购物车时推送最新视图。
func (h *Handler) CartEvents(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	views := make(chan service.CartView, 1)
	done := make(chan error, 1)
	go func() {
		done <- h.CartWatcher.Watch(ctx, scope, func(view service.CartView) {
			pushLatestView(views, view)
		})
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case err := <-done:
			if err != nil {
				handlershared.RequestLog(c).Warnw("cart_events_closed", "origin", scope.Origin, "tab", scope.Tab, "error", err)
			}
			return false
		case view := <-views:
			c.SSEvent("cart", h.cartResponse(view))
			return true
		}
	})
}

// pushLatestView 只保留最新视图，慢消费者不阻塞监听协程
func pushLatestView(ch chan service.CartView, view service.CartView) {
	for {
		select {
		case ch <- view:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (h *Handler) respondQuantityInvalid(c *gin.Context) {
	respondErrorWithMsg(c, response.CodeBadRequest, handlershared.Messagef("error.quantity_invalid", h.Config.Cart.MaxLineQuantity), nil)
}
