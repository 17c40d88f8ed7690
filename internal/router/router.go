package router

import (
	"fmt"
	"net/http"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/dto"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/handlers"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/middleware"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Deps struct {
	Orders   service.OrderService
	Carts    service.CartService
	Checkout service.CheckoutService
	Payments service.PaymentService
	Verifier middleware.TokenVerifier

	// HTTPMetrics и MetricsHandler необязательны
	HTTPMetrics    *middleware.Metrics
	MetricsHandler http.Handler

	CORSOrigins []string
}

func Router(d Deps, log *zap.Logger) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Handler())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
	}
	if len(d.CORSOrigins) == 0 {
		// браузеры не принимают "*" вместе с credentials
		log.Warn("CORS_ORIGINS is empty, allowing any origin without credentials")
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = d.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	api := r.Group("/api/v1", middleware.AuthRequired(d.Verifier, log))

	cart := handlers.NewCartHandler(d.Carts, log)
	api.GET("/cart", cart.Get)
	api.POST("/cart", cart.Add)
	api.PUT("/cart", cart.Update)
	api.DELETE("/cart", cart.Remove)
	api.DELETE("/cart/all", cart.Clear)

	checkout := handlers.NewCheckoutHandler(d.Checkout, log)
	api.PUT("/checkout/selection", checkout.SaveSelection)
	api.GET("/checkout/selection", checkout.GetSelection)
	api.POST("/checkout/quote", checkout.Quote)

	orders := handlers.NewOrderHandler(d.Orders, log)
	api.POST("/orders", orders.Place)
	api.GET("/orders", orders.ListMine)
	api.GET("/orders/:id", orders.GetMine)

	payments := handlers.NewPaymentHandler(d.Payments, log)
	api.POST("/payments/razorpay/create-order", payments.CreateOrder)
	api.POST("/payments/razorpay/verify", payments.Verify)

	admin := api.Group("/admin", middleware.RequireRole(service.RoleAdmin))
	admin.GET("/orders", orders.ListAll)
	admin.GET("/orders/stats", orders.Stats)
	admin.GET("/orders/:id", orders.GetAny)
	admin.PUT("/orders/:id/status", orders.UpdateStatus)
	admin.PUT("/orders/:id/payment-status", orders.UpdatePaymentStatus)

	return r, nil
}
