package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// ParsePagination 读取 page / page_size 查询参数
// 两者都缺省时 paged 为 false，调用方返回全部结果；非数字按缺省值处理。
func ParsePagination(c *gin.Context) (page, pageSize int, paged bool) {
	rawPage := strings.TrimSpace(c.Query("page"))
	rawSize := strings.TrimSpace(c.Query("page_size"))
	if rawPage == "" && rawSize == "" {
		return 0, 0, false
	}
	page, _ = strconv.Atoi(rawPage)
	pageSize, _ = strconv.Atoi(rawSize)
	page, pageSize = NormalizePagination(page, pageSize)
	return page, pageSize, true
}
