package router

import (
	"time"

	"zoovio-backend/internal/cache"
	"zoovio-backend/internal/handlers"
	"zoovio-backend/internal/middleware"
	"zoovio-backend/internal/service"
	"zoovio-backend/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "zoovio-backend/docs"
)

type Deps struct {
	Auth     service.AuthService
	Checkout service.CheckoutService
	Tokens   *token.HSProvider
	Redis    *cache.RedisClient // nil — rate limiting выключен
	Log      *zap.Logger
}

func Router(d Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	authHandler := handlers.NewAuthHandler(d.Auth, d.Log)
	paymentHandler := handlers.NewPaymentHandler(d.Checkout, d.Log)
	orderHandler := handlers.NewOrderHandler(d.Checkout, d.Log)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(d.Redis, "auth", 10, time.Minute, d.Log))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	payments := api.Group("/payments")
	// Webhook без авторизации: аутентичность события подтверждает подпись.
	payments.POST("/webhook", paymentHandler.Webhook)

	paymentsAuth := payments.Group("")
	paymentsAuth.Use(middleware.AuthRequired(d.Tokens, d.Log))
	paymentsAuth.Use(middleware.RateLimit(d.Redis, "payments", 30, time.Minute, d.Log))
	{
		paymentsAuth.POST("/create-checkout-session", paymentHandler.CreateCheckoutSession)
		paymentsAuth.GET("/verify-session/:session_id", paymentHandler.VerifySession)
		paymentsAuth.GET("/history", paymentHandler.PaymentHistory)
	}

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(d.Tokens, d.Log))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id/status", orderHandler.UpdateStatus)
	}

	return r
}
