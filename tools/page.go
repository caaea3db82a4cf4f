package tools

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 30
	maxPageSize     = 300
	// maxPage 保证 (page-1)*limit 不溢出
	maxPage = 1 << 20
)

// GetPage 从 query 读取 page、page_size，page 从 1 开始
func GetPage(c *gin.Context) (offset, limit int) {
	limit, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	} else if limit > maxPageSize {
		limit = maxPageSize
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 0, limit
	}
	if page > maxPage {
		page = maxPage
	}
	return (page - 1) * limit, limit
}

// QueryUint 参数缺失或非法时返回 nil
func QueryUint(c *gin.Context, key string) *uint {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

// ParamUint 解析路径参数中的 ID
func ParamUint(c *gin.Context, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(key), 10, 0)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
