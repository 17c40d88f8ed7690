package handlers

import (
	"net/http"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/dto"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

// PUT /api/v1/checkout/selection
func (h *CheckoutHandler) SaveSelection(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, "checkout selection", err)
		return
	}

	sel, err := h.checkout.SaveSelection(c.Request.Context(), uid, service.SelectionInput{
		AddressID:      uuid.MustParse(req.AddressID),
		DeliveryOption: req.DeliveryOption,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		writeError(c, h.log, "save checkout selection", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSelectionResponse(sel))
}

// GET /api/v1/checkout/selection
func (h *CheckoutHandler) GetSelection(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	sel, err := h.checkout.GetSelection(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, "get checkout selection", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSelectionResponse(sel))
}

// POST /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	totals, err := h.checkout.Quote(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, "quote checkout", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTotalsResponse(totals))
}
