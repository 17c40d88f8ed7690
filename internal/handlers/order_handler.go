package handlers

import (
	"net/http"
	"strings"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/dto"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// POST /api/v1/orders: оформление заказа из корзины (оплата при получении)
func (h *OrderHandler) Place(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, "place order", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// GET /api/v1/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.log, "list orders", err)
		return
	}
	orders, err := h.orders.ListUserOrders(c.Request.Context(), uid, statusFilter(q.Status))
	if err != nil {
		writeError(c, h.log, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListOrdersResponse(orders, int64(len(orders))))
}

// GET /api/v1/orders/:id
func (h *OrderHandler) GetMine(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrderForUser(c.Request.Context(), id, uid)
	if err != nil {
		writeError(c, h.log, "get order", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// GET /api/v1/admin/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.log, "list orders", err)
		return
	}
	orders, total, err := h.orders.ListOrders(c.Request.Context(), service.ListFilter{
		Status: statusFilter(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		writeError(c, h.log, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListOrdersResponse(orders, total))
}

// GET /api/v1/admin/orders/:id
func (h *OrderHandler) GetAny(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, "get order", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// PUT /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, "update order status", err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, h.log, "update order status", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// PUT /api/v1/admin/orders/:id/payment-status
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, "update payment status", err)
		return
	}
	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		writeError(c, h.log, "update payment status", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// GET /api/v1/admin/orders/stats
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "order stats", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderStatsResponse(stats))
}

func statusFilter(s string) *models.OrderStatus {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	st := models.OrderStatus(s)
	return &st
}
