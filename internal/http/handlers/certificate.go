package handlers

import (
	"github.com/giftcert-next/internal/http/response"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/service"

	"github.com/gin-gonic/gin"
)

type certificateTagPayload struct {
	Name string `json:"name"`
}

type createCertificateRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Price       int                     `json:"price"`
	Duration    int                     `json:"duration"`
	Tags        []certificateTagPayload `json:"tags"`
}

type updateCertificateRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Price       *int                    `json:"price"`
	Duration    *int                    `json:"duration"`
	Tags        []certificateTagPayload `json:"tags"`
}

func payloadToTags(payload []certificateTagPayload) []models.Tag {
	if payload == nil {
		return nil
	}
	tags := make([]models.Tag, 0, len(payload))
	for _, item := range payload {
		tags = append(tags, models.Tag{Name: item.Name})
	}
	return tags
}

// ListCertificates 查询礼品券列表，支持子串搜索、标签过滤、排序与分页
func (h *Handler) ListCertificates(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, err.Error())
		return
	}

	fields := map[string]string{}
	if name := c.Query("name"); name != "" {
		fields["name"] = name
	}
	if description := c.Query("description"); description != "" {
		fields["description"] = description
	}

	sortField := c.Query("sort_by")
	sortOrder := c.Query("sort_order")
	tagNames := parseCSV(c.Query("tag_names"))

	// 无筛选条件时走全量分页，结果按 id 升序
	if len(fields) == 0 && len(tagNames) == 0 && sortField == "" && sortOrder == "" {
		certificates, err := h.CertificateService.GetAll(limit, offset)
		if err != nil {
			respondWithMappedError(c, err, certificateErrorRules)
			return
		}
		response.OK(c, certificates)
		return
	}

	input := service.CertificateSearchInput{
		Fields:    fields,
		SortField: sortField,
		SortOrder: sortOrder,
		TagNames:  tagNames,
		Limit:     limit,
		Offset:    offset,
	}

	certificates, err := h.CertificateService.Search(input)
	if err != nil {
		respondWithMappedError(c, err, certificateErrorRules)
		return
	}
	response.OK(c, certificates)
}

// GetCertificate 获取单张礼品券
func (h *Handler) GetCertificate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, err.Error())
		return
	}
	certificate, err := h.CertificateService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, certificateErrorRules)
		return
	}
	response.OK(c, certificate)
}

// CreateCertificate 创建礼品券
func (h *Handler) CreateCertificate(c *gin.Context) {
	var req createCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, "invalid request body")
		return
	}
	certificate, err := h.CertificateService.Create(service.CreateCertificateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Tags:        payloadToTags(req.Tags),
	})
	if err != nil {
		respondWithMappedError(c, err, certificateErrorRules)
		return
	}
	response.Created(c, certificate)
}

// UpdateCertificate 整体更新礼品券，缺省字段保持原值
func (h *Handler) UpdateCertificate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, err.Error())
		return
	}
	var req updateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, "invalid request body")
		return
	}
	_, err = h.CertificateService.Update(id, service.UpdateCertificateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Tags:        payloadToTags(req.Tags),
	})
	if err != nil {
		respondWithMappedError(c, err, certificateErrorRules)
		return
	}
	response.NoContent(c)
}

// PatchCertificate 按字段名部分更新礼品券
func (h *Handler) PatchCertificate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, err.Error())
		return
	}
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, "invalid request body")
		return
	}
	if _, err := h.CertificateService.UpdateFields(id, fields); err != nil {
		respondWithMappedError(c, err, certificateErrorRules)
		return
	}
	response.NoContent(c)
}

// DeleteCertificate 删除礼品券
func (h *Handler) DeleteCertificate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeCertificateBadRequest, err.Error())
		return
	}
	if err := h.CertificateService.Delete(id); err != nil {
		respondWithMappedError(c, err, certificateErrorRules)
		return
	}
	response.NoContent(c)
}
