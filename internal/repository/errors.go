package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrUnknownField 查询条件中出现不在白名单内的字段名
	ErrUnknownField = errors.New("unknown certificate field")
	// ErrRowConflict 按唯一键查询返回了多行
	ErrRowConflict = errors.New("conflicting duplicate rows")
)

// IsDuplicateKeyError 判断写入是否因唯一约束冲突失败
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
