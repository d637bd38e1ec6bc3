package handlers

import (
	"strconv"
	"strings"

	"github.com/giftcert-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type createTagRequest struct {
	Name string `json:"name"`
}

// ListTags 分页获取标签
func (h *Handler) ListTags(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.BadRequest(c, response.CodeTagBadRequest, err.Error())
		return
	}
	// 支持按名称精确查找
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		tag, err := h.TagService.GetByName(name)
		if err != nil {
			respondWithMappedError(c, err, tagErrorRules)
			return
		}
		response.OK(c, tag)
		return
	}
	tags, err := h.TagService.GetAll(limit, offset)
	if err != nil {
		respondWithMappedError(c, err, tagErrorRules)
		return
	}
	response.OK(c, tags)
}

// GetTag 获取单个标签
func (h *Handler) GetTag(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeTagBadRequest, err.Error())
		return
	}
	tag, err := h.TagService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, tagErrorRules)
		return
	}
	response.OK(c, tag)
}

// CreateTag 创建标签
func (h *Handler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeTagBadRequest, "invalid request body")
		return
	}
	tag, err := h.TagService.Create(req.Name)
	if err != nil {
		respondWithMappedError(c, err, tagErrorRules)
		return
	}
	response.Created(c, tag)
}

// DeleteTag 删除标签及其关联
func (h *Handler) DeleteTag(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeTagBadRequest, err.Error())
		return
	}
	if err := h.TagService.Delete(id); err != nil {
		respondWithMappedError(c, err, tagErrorRules)
		return
	}
	response.NoContent(c)
}

// TopTagOfUser 用户订单消费合计最高的标签
func (h *Handler) TopTagOfUser(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("user_id"))
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		response.BadRequest(c, response.CodeTagBadRequest, "user_id must be a positive integer")
		return
	}
	top, err := h.TagService.TopTagOfUser(uint(userID))
	if err != nil {
		respondWithMappedError(c, err, tagErrorRules)
		return
	}
	response.OK(c, top)
}
