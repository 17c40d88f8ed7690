package handlers

import (
	"net/http"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/dto"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	payments service.PaymentService
	log      *zap.Logger
}

func NewPaymentHandler(payments service.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// POST /api/v1/payments/razorpay/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	po, err := h.payments.CreatePaymentOrder(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.log, "create payment order", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCreatePaymentOrderResponse(po))
}

// POST /api/v1/payments/razorpay/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, "verify payment", err)
		return
	}

	order, err := h.payments.VerifyAndPlace(c.Request.Context(), uid, service.VerifyPaymentInput{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		Signature:         req.RazorpaySignature,
	})
	if err != nil {
		writeError(c, h.log, "verify payment", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}
