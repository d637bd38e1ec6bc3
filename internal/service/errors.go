package service

import (
	"errors"
	"fmt"
)

// 业务错误哨兵，处理器按 errors.Is 映射为对应的错误码
var (
	ErrValidation          = errors.New("validation failed")
	ErrCertificateNotFound = errors.New("gift certificate not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrTagAlreadyExists    = errors.New("tag already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrStoreConsistency    = errors.New("store consistency violated")
)

// FieldError 带字段名的校验错误，errors.Is 匹配 ErrValidation
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s %s", e.Field, e.Reason)
}

// Is 使 FieldError 可以通过 ErrValidation 哨兵匹配
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

func newFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// checkPagination 校验分页参数
func checkPagination(limit, offset int) error {
	if limit <= 0 {
		return newFieldError("limit", "must be positive")
	}
	if offset < 0 {
		return newFieldError("offset", "must not be negative")
	}
	return nil
}
