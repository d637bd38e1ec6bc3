package handlers

import (
	"github.com/giftcert-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListUsers 分页获取用户
func (h *Handler) ListUsers(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.BadRequest(c, response.CodeUserBadRequest, err.Error())
		return
	}
	users, err := h.UserService.GetAll(limit, offset)
	if err != nil {
		respondWithMappedError(c, err, userErrorRules)
		return
	}
	response.OK(c, users)
}

// GetUser 获取单个用户
func (h *Handler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeUserBadRequest, err.Error())
		return
	}
	user, err := h.UserService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, userErrorRules)
		return
	}
	response.OK(c, user)
}

// CreateUser 创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	user, err := h.UserService.Create()
	if err != nil {
		respondWithMappedError(c, err, userErrorRules)
		return
	}
	response.Created(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeUserBadRequest, err.Error())
		return
	}
	if err := h.UserService.Delete(id); err != nil {
		respondWithMappedError(c, err, userErrorRules)
		return
	}
	response.NoContent(c)
}
