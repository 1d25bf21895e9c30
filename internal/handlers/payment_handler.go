package handlers

import (
	"errors"
	"net/http"

	"zoovio-backend/internal/dto"
	"zoovio-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	checkout service.CheckoutService
	log      *zap.Logger
}

func NewPaymentHandler(checkout service.CheckoutService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, log: log}
}

func requestMeta(c *gin.Context) service.RequestMeta {
	ip := c.ClientIP()
	ua := c.Request.UserAgent()
	meta := service.RequestMeta{}
	if ip != "" {
		meta.IP = &ip
	}
	if ua != "" {
		meta.UserAgent = &ua
	}
	return meta
}

// CreateCheckoutSession godoc
// @Summary Создание checkout-сессии
// @Description Создаёт заказ со снимком корзины и checkout-сессию у платёжного процессора
// @Security BearerAuth
// @Tags payments
// @Accept json
// @Produce json
// @Param checkout body dto.CreateCheckoutSessionRequest true "Корзина и данные покупателя"
// @Success 201 {object} dto.CreateCheckoutSessionResponse
// @Failure 400 {object} dto.BaseError "Неверные данные корзины"
// @Failure 401 {object} dto.BaseError "Неавторизован"
// @Failure 500 {object} dto.BaseError "Внутренняя ошибка или процессор недоступен"
// @Router /api/payments/create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req dto.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid checkout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	items := make([]service.CartItem, 0, len(req.CartItems))
	for _, it := range req.CartItems {
		items = append(items, service.CartItem{
			PetID:    it.PetID,
			Name:     it.Name,
			Category: it.Category,
			Breed:    it.Breed,
			Quantity: it.Quantity,
			Price:    decimal.NewFromFloat(it.Price),
		})
	}

	res, err := h.checkout.CreateCheckoutSession(c.Request.Context(), service.CreateCheckoutInput{
		Currency:        req.Currency,
		Customer:        service.CustomerInfo{Name: req.CustomerName, Email: req.CustomerEmail},
		Items:           items,
		DeclaredTotal:   decimal.NewFromFloat(req.Amount),
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		Meta:            requestMeta(c),
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateCheckoutSessionResponse{
		OrderID:     res.OrderID.String(),
		OrderNumber: res.OrderNumber,
		SessionID:   res.SessionID,
		SessionURL:  res.SessionURL,
	})
}

// VerifySession godoc
// @Summary Верификация checkout-сессии
// @Description Запрашивает состояние сессии у процессора и сверяет заказ с фактом оплаты
// @Security BearerAuth
// @Tags payments
// @Produce json
// @Param session_id path string true "ID checkout-сессии"
// @Success 200 {object} dto.VerifySessionResponse
// @Failure 401 {object} dto.BaseError "Неавторизован"
// @Failure 404 {object} dto.BaseError "Сессия не найдена"
// @Failure 500 {object} dto.BaseError "Внутренняя ошибка или процессор недоступен"
// @Router /api/payments/verify-session/{session_id} [get]
func (h *PaymentHandler) VerifySession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("session_id is required", nil))
		return
	}

	res, err := h.checkout.VerifySession(c.Request.Context(), sessionID, requestMeta(c))
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifySessionResponse{
		OrderID:       res.OrderID.String(),
		OrderNumber:   res.OrderNumber,
		Status:        string(res.Status),
		PaymentStatus: string(res.PaymentStatus),
		Amount:        res.Amount.StringFixed(2),
		Currency:      res.Currency,
		CustomerEmail: res.CustomerEmail,
	})
}

// Webhook godoc
// @Summary Webhook платёжного процессора
// @Description Принимает подписанные события процессора. Тело читается сырыми байтами — подпись считается по ним.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Failure 400 {object} dto.BaseError "Подпись не прошла проверку"
// @Router /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.log.Warn("Не удалось прочитать тело webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewError(dto.CodeValidation, "cannot read request body"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.checkout.HandleWebhook(c.Request.Context(), payload, signature, requestMeta(c)); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.NewError(dto.CodeBadSignature, "invalid webhook signature"))
			return
		}
		// Ошибка на нашей стороне: отвечаем 500, процессор повторит доставку.
		h.log.Error("Webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodeInternalError, "internal error"))
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Received: true})
}

// PaymentHistory godoc
// @Summary История платежей
// @Description Возвращает платежи текущего пользователя со сводкой заказов, новые сверху
// @Security BearerAuth
// @Tags payments
// @Produce json
// @Success 200 {object} dto.PaymentHistoryResponse
// @Failure 401 {object} dto.BaseError "Неавторизован"
// @Failure 500 {object} dto.BaseError "Внутренняя ошибка"
// @Router /api/payments/history [get]
func (h *PaymentHandler) PaymentHistory(c *gin.Context) {
	rows, err := h.checkout.PaymentHistory(c.Request.Context())
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	items := make([]dto.PaymentHistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.PaymentHistoryItem{
			ID:           r.ID.String(),
			Amount:       r.Amount.StringFixed(2),
			Currency:     r.Currency,
			Status:       r.Status,
			CardBrand:    r.CardBrand,
			CardLastFour: r.CardLastFour,
			ProcessedAt:  r.ProcessedAt,
			CreatedAt:    r.CreatedAt,
			OrderNumber:  r.OrderNumber,
			OrderStatus:  r.OrderStatus,
		})
	}

	c.JSON(http.StatusOK, dto.PaymentHistoryResponse{Payments: items})
}

func (h *PaymentHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewError(dto.CodeUnauthorized, "unauthorized"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewError(dto.CodeForbidden, "forbidden"))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.NewError(dto.CodeNotFound, "order not found"))
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrPriceInvalid),
		errors.Is(err, service.ErrAmountInvalid),
		errors.Is(err, service.ErrCurrencyNotSupported):
		c.JSON(http.StatusBadRequest, dto.NewError(dto.CodeValidation, err.Error()))
	case errors.Is(err, service.ErrSessionAlreadySet):
		c.JSON(http.StatusConflict, dto.NewError(dto.CodeConflict, err.Error()))
	case errors.Is(err, service.ErrProcessorAuth):
		// Наш ключ невалиден — проблема конфигурации, не клиента.
		h.log.Error("Payment processor rejected credentials", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodePaymentError, "payment processor configuration error"))
	case errors.Is(err, service.ErrProcessorUnavailable):
		h.log.Error("Payment processor unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodePaymentError, "payment processor unavailable"))
	default:
		h.log.Error("Checkout operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodeInternalError, "internal error"))
	}
}
