package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port        string
	DB          DB
	JWT         JWT
	Razorpay    Razorpay
	Redis       Redis
	Kafka       Kafka
	CORSOrigins []string
}

type DB struct {
	database.Config
}

type JWT struct {
	Secret   string
	Issuer   string
	Audience string
}

type Razorpay struct {
	KeyID     string
	KeySecret string
}

// Enabled: ключи заданы; без них онлайн-оплата отключена.
func (r Razorpay) Enabled() bool { return r.KeyID != "" && r.KeySecret != "" }

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Brokers     []string
	OrdersTopic string
	EmailTopic  string
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		DB:   LoadDB(log),
		JWT: JWT{
			Secret:   getEnv("JWT_SECRET", log),
			Issuer:   getEnv("JWT_ISSUER", log),
			Audience: getEnv("JWT_AUDIENCE", log),
		},
		Razorpay: Razorpay{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		},
		Redis: Redis{
			Enabled:  os.Getenv("REDIS_ENABLED") == "true",
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       atoiDefault(os.Getenv("REDIS_DB"), 0),
		},
		Kafka: Kafka{
			Brokers:     splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			OrdersTopic: getEnvDefault("KAFKA_TOPIC_ORDERS", "orders"),
			EmailTopic:  getEnvDefault("KAFKA_TOPIC_EMAIL", "email"),
		},
		CORSOrigins: splitAndTrim(getEnvDefault("CORS_ORIGINS", "*")),
	}
}

// LoadDB: только настройки БД, нужны cmd/migrate.
func LoadDB(log *zap.Logger) DB {
	return DB{
		Config: database.Config{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
