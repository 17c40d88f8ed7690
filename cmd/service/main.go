package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/config"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/cache"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/middleware"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/payment"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/pkg/database"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/pkg/logger"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/producer"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/router"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/telemetry"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	metrics := telemetry.NewBusinessMetrics(prometheus.DefaultRegisterer)

	// Event bus is optional (nil disables publishing)
	var events service.EventBus
	if cfg.Kafka.Enabled() {
		email := producer.NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.EmailTopic)
		defer email.Close()
		orderEvents := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, email, log)
		defer orderEvents.Close()
		events = orderEvents
		log.Info("Kafka producer enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	var locker service.Locker
	if cfg.Redis.Enabled {
		rc, err := cache.Connect(context.Background(), &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer rc.Close()
		locker = rc
	}

	var gateway service.PaymentGateway
	if cfg.Razorpay.Enabled() {
		gateway = payment.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		log.Warn("Razorpay keys not set, online payments disabled")
	}

	orders := service.NewOrderService(repos, events, metrics, log)
	carts := service.NewCartService(repos, metrics, log)
	checkout := service.NewCheckoutService(repos, log)
	payments := service.NewPaymentService(repos, gateway, orders, locker, metrics, log)

	r, err := router.Router(router.Deps{
		Orders:         orders,
		Carts:          carts,
		Checkout:       checkout,
		Payments:       payments,
		Verifier:       token.NewAccessVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		HTTPMetrics:    middleware.NewMetrics("shop", prometheus.DefaultRegisterer),
		MetricsHandler: promhttp.Handler(),
		CORSOrigins:    cfg.CORSOrigins,
	}, log)
	if err != nil {
		log.Fatal("router init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
