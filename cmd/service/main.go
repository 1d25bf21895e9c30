package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zoovio-backend/config"
	"zoovio-backend/internal/cache"
	"zoovio-backend/internal/database"
	"zoovio-backend/internal/hashing"
	"zoovio-backend/internal/logger"
	"zoovio-backend/internal/payment"
	"zoovio-backend/internal/producer"
	"zoovio-backend/internal/repository"
	"zoovio-backend/internal/router"
	"zoovio-backend/internal/service"
	"zoovio-backend/internal/token"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Zoovio API
// @Version 1.0
// @Description API зоомагазина: заказы, оплата, сверка платежей
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		var err error
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("Не удалось подключиться к Redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var emailBus service.EmailBus
	if cfg.Kafka.Enabled {
		emailProducer := producer.NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer emailProducer.Close()
		emailBus = emailProducer
	}

	stripeClient := payment.NewStripeClient(payment.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	}, log)

	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	hasher := hashing.NewBcrypt(0)

	authSvc := service.NewAuthService(repos.Users, hasher, tokens,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute, log)
	checkoutSvc := service.NewCheckoutService(repos, stripeClient, emailBus, cfg.SupportedCurrencies, log)

	r := router.Router(router.Deps{
		Auth:     authSvc,
		Checkout: checkoutSvc,
		Tokens:   tokens,
		Redis:    redisClient,
		Log:      log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Запуск HTTP-сервера", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP-сервер завершился с ошибкой", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Остановка HTTP-сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Ошибка при остановке HTTP-сервера", zap.Error(err))
	}
	log.Info("HTTP-сервер остановлен")
}
