package handlers

import (
	"net/http"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/dto"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts service.CartService
	log   *zap.Logger
}

func NewCartHandler(carts service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

// GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, "get cart", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, "add to cart", err)
		return
	}

	item, err := h.carts.AddToCart(c.Request.Context(), uid, service.AddToCartInput{
		ProductID:    uuid.MustParse(req.ProductID),
		VariantID:    optionalUUID(req.VariantID),
		Quantity:     req.Quantity,
		Price:        req.Price,
		VariantName:  req.VariantName,
		VariantImage: req.VariantImage,
		VariantColor: req.VariantColor,
		WeightValue:  req.WeightValue,
		WeightUnit:   req.WeightUnit,
	})
	if err != nil {
		writeError(c, h.log, "add to cart", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartItemResponse(item))
}

// PUT /api/v1/cart
func (h *CartHandler) Update(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, "update cart", err)
		return
	}

	item, err := h.carts.UpdateQuantity(c.Request.Context(), uid, uuid.MustParse(req.ProductID), models.CartIdentity{
		VariantID:    optionalUUID(req.VariantID),
		VariantName:  req.VariantName,
		VariantColor: req.VariantColor,
	}, req.Quantity)
	if err != nil {
		writeError(c, h.log, "update cart", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartItemResponse(item))
}

// DELETE /api/v1/cart?product_id=...
func (h *CartHandler) Remove(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var q dto.RemoveCartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.log, "remove cart item", err)
		return
	}

	err := h.carts.RemoveItem(c.Request.Context(), uid, uuid.MustParse(q.ProductID), models.CartIdentity{
		VariantID:    optionalUUID(&q.VariantID),
		VariantName:  q.VariantName,
		VariantColor: q.VariantColor,
	})
	if err != nil {
		writeError(c, h.log, "remove cart item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/v1/cart/all
func (h *CartHandler) Clear(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.carts.ClearCart(c.Request.Context(), uid); err != nil {
		writeError(c, h.log, "clear cart", err)
		return
	}
	c.Status(http.StatusNoContent)
}
