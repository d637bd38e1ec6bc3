package handlers

import (
	"strconv"
	"strings"

	"github.com/giftcert-next/internal/http/response"
	"github.com/giftcert-next/internal/service"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	UserID            uint `json:"user_id"`
	GiftCertificateID uint `json:"gift_certificate_id"`
}

// ListOrders 分页获取订单，支持按用户过滤
func (h *Handler) ListOrders(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.BadRequest(c, response.CodeOrderBadRequest, err.Error())
		return
	}

	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			response.BadRequest(c, response.CodeOrderBadRequest, "user_id must be a positive integer")
			return
		}
		orders, err := h.OrderService.GetAllByUser(uint(userID), limit, offset)
		if err != nil {
			respondWithMappedError(c, err, orderErrorRules)
			return
		}
		response.OK(c, orders)
		return
	}

	orders, err := h.OrderService.GetAll(limit, offset)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.OK(c, orders)
}

// GetOrder 获取单个订单
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeOrderBadRequest, err.Error())
		return
	}
	order, err := h.OrderService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.OK(c, order)
}

// CreateOrder 下单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeOrderBadRequest, "invalid request body")
		return
	}
	order, err := h.OrderService.Create(service.CreateOrderInput{
		UserID:            req.UserID,
		GiftCertificateID: req.GiftCertificateID,
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.Created(c, order)
}

// DeleteOrder 删除订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, response.CodeOrderBadRequest, err.Error())
		return
	}
	if err := h.OrderService.Delete(id); err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.NoContent(c)
}
