package repository

import "gorm.io/gorm"

// applyLimitOffset 应用分页参数，统一处理非法取值。
func applyLimitOffset(query *gorm.DB, limit, offset int) *gorm.DB {
	if query == nil || limit <= 0 {
		return query
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
