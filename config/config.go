package config

import (
	"os"
	"strconv"
	"strings"

	"zoovio-backend/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   DB

	JWT    JWT
	Stripe Stripe
	Redis  Redis
	Kafka  Kafka

	SupportedCurrencies []string
}

type DB struct {
	database.Config
}

type JWT struct {
	Secret       string
	Issuer       string
	Audience     string
	AccessTTLMin int
}

type Stripe struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		JWT: JWT{
			Secret:       getEnv("JWT_SECRET", log),
			Issuer:       getEnvDefault("JWT_ISSUER", "zoovio"),
			Audience:     getEnvDefault("JWT_AUDIENCE", "zoovio-api"),
			AccessTTLMin: atoiDefault(os.Getenv("JWT_ACCESS_TTL_MIN"), 60),
		},
		Stripe: Stripe{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", log),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", log),
			SuccessURL:    getEnv("CHECKOUT_SUCCESS_URL", log),
			CancelURL:     getEnv("CHECKOUT_CANCEL_URL", log),
		},
		Redis: Redis{
			Enabled:  os.Getenv("REDIS_ENABLED") == "true",
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       atoiDefault(os.Getenv("REDIS_DB"), 0),
		},
		Kafka: Kafka{
			Enabled: os.Getenv("KAFKA_ENABLED") == "true",
			Brokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvDefault("KAFKA_TOPIC_EMAIL", "email-notifications"),
		},
		SupportedCurrencies: splitAndTrim(getEnvDefault("SUPPORTED_CURRENCIES", "USD,EUR,GBP")),
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		log.Error("REDIS_ENABLED=true, но REDIS_ADDR не задан")
		panic("missing required environment variable: REDIS_ADDR")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		log.Error("KAFKA_ENABLED=true, но KAFKA_BROKERS не задан")
		panic("missing required environment variable: KAFKA_BROKERS")
	}

	return cfg
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
