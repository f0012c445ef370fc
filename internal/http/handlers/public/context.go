package public

import (
	handlershared "github.com/bean-boutique/internal/http/handlers/shared"
	"github.com/bean-boutique/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

func getCartScope(c *gin.Context) (service.CartScope, bool) {
	return handlershared.GetCartScope(c)
}
