package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/giftcert-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// parsePagination 解析 limit/offset 查询参数，缺省用默认值并限制上限
func parsePagination(c *gin.Context) (int, int, error) {
	limit := constants.DefaultPageLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer")
		}
		limit = value
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}

	offset := 0
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("offset must be an integer")
		}
		offset = value
	}
	return limit, offset, nil
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(value), nil
}

// parseCSV 解析逗号分隔的查询参数
func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
