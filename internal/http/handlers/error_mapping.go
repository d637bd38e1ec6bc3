package handlers

import (
	"errors"
	"net/http"

	"github.com/giftcert-next/internal/http/response"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到响应的映射，message 为空时使用 err.Error()
type mappedHandlerError struct {
	target  error
	status  int
	code    int
	message string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			message := rule.message
			if message == "" {
				message = err.Error()
			}
			response.Error(c, rule.status, rule.code, message)
			return
		}
	}
	logger.Errorw("handler_unmapped_error", "path", c.FullPath(), "error", err)
	response.Internal(c, response.CodeInternal, "internal server error")
}

var certificateErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, status: http.StatusBadRequest, code: response.CodeCertificateBadRequest},
	{target: service.ErrCertificateNotFound, status: http.StatusNotFound, code: response.CodeCertificateNotFound, message: "gift certificate not found"},
	{target: service.ErrStoreConsistency, status: http.StatusInternalServerError, code: response.CodeStoreConsistency, message: "store consistency violated"},
}

var tagErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, status: http.StatusBadRequest, code: response.CodeTagBadRequest},
	{target: service.ErrTagNotFound, status: http.StatusNotFound, code: response.CodeTagNotFound, message: "tag not found"},
	{target: service.ErrTagAlreadyExists, status: http.StatusConflict, code: response.CodeTagConflict, message: "tag already exists"},
	{target: service.ErrStoreConsistency, status: http.StatusInternalServerError, code: response.CodeStoreConsistency, message: "store consistency violated"},
}

var userErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, status: http.StatusBadRequest, code: response.CodeUserBadRequest},
	{target: service.ErrUserNotFound, status: http.StatusNotFound, code: response.CodeUserNotFound, message: "user not found"},
	{target: service.ErrStoreConsistency, status: http.StatusInternalServerError, code: response.CodeStoreConsistency, message: "store consistency violated"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, status: http.StatusBadRequest, code: response.CodeOrderBadRequest},
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, code: response.CodeOrderNotFound, message: "order not found"},
	{target: service.ErrUserNotFound, status: http.StatusNotFound, code: response.CodeUserNotFound, message: "user not found"},
	{target: service.ErrCertificateNotFound, status: http.StatusNotFound, code: response.CodeCertificateNotFound, message: "gift certificate not found"},
	{target: service.ErrStoreConsistency, status: http.StatusInternalServerError, code: response.CodeStoreConsistency, message: "store consistency violated"},
}
