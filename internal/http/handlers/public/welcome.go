package public

import (
	"github.com/bean-boutique/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetWelcome 欢迎弹窗状态
func (h *Handler) GetWelcome(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	status, err := h.WelcomeService.Status(c.Request.Context(), scope.Origin)
	if err != nil {
		respondWelcomeError(c, err, "error.welcome_fetch_failed")
		return
	}
	response.Success(c, status)
}

// DismissWelcome 关闭欢迎弹窗，之后不再显示
func (h *Handler) DismissWelcome(c *gin.Context) {
	scope, ok := getCartScope(c)
	if !ok {
		return
	}
	if err := h.WelcomeService.Dismiss(c.Request.Context(), scope.Origin, scope.Tab); err != nil {
		respondWelcomeError(c, err, "error.welcome_update_failed")
		return
	}
	response.Success(c, gin.H{"show": false})
}
