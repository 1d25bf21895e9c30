package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"zoovio-backend/internal/dto"
	"zoovio-backend/internal/models"
	"zoovio-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	checkout service.CheckoutService
	log      *zap.Logger
}

func NewOrderHandler(checkout service.CheckoutService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, log: log}
}

// GetOrder godoc
// @Summary Получение заказа
// @Description Возвращает заказ текущего пользователя с позициями и платежом
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа (UUID)"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.BaseError "Неверный ID"
// @Failure 401 {object} dto.BaseError "Неавторизован"
// @Failure 403 {object} dto.BaseError "Чужой заказ"
// @Failure 404 {object} dto.BaseError "Заказ не найден"
// @Router /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}

	order, payment, err := h.checkout.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order, payment))
}

// ListOrders godoc
// @Summary Список заказов
// @Description Возвращает заказы текущего пользователя, новые сверху
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param status query string false "Фильтр по статусу" Enums(pending, confirmed, processing, cancelled)
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.OrderListResponse
// @Failure 401 {object} dto.BaseError "Неавторизован"
// @Router /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	f := service.ListFilter{Limit: 20}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}
	if v := c.Query("status"); v != "" {
		st := models.OrderStatus(v)
		switch st {
		case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProcessing, models.OrderStatusCancelled:
			f.Status = &st
		default:
			c.JSON(http.StatusBadRequest, dto.NewValidationError("unknown order status", nil))
			return
		}
	}

	orders, total, err := h.checkout.ListOrders(c.Request.Context(), f)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderResponse(&orders[i], nil))
	}

	c.JSON(http.StatusOK, dto.OrderListResponse{
		Orders: out,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

// UpdateStatus godoc
// @Summary Смена статуса заказа
// @Description Пользователю доступна только отмена собственного нетерминального заказа
// @Security BearerAuth
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа (UUID)"
// @Param status body dto.UpdateOrderStatusRequest true "Новый статус (только cancelled)"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.BaseError "Неверный ID или статус"
// @Failure 401 {object} dto.BaseError "Неавторизован"
// @Failure 403 {object} dto.BaseError "Чужой заказ"
// @Failure 404 {object} dto.BaseError "Заказ не найден"
// @Failure 409 {object} dto.BaseError "Заказ нельзя отменить"
// @Router /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	if models.OrderStatus(req.Status) != models.OrderStatusCancelled {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("only cancellation is allowed", nil))
		return
	}

	order, err := h.checkout.CancelOrder(c.Request.Context(), id, requestMeta(c))
	if err != nil {
		if errors.Is(err, service.ErrAlreadyCancelled) {
			// Повторная отмена идемпотентна: отдаём заказ как есть.
			c.JSON(http.StatusOK, orderResponse(order, nil))
			return
		}
		if errors.Is(err, service.ErrOrderNotCancellable) {
			c.JSON(http.StatusConflict, dto.NewError(dto.CodeConflict, "order cannot be cancelled"))
			return
		}
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order, nil))
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewError(dto.CodeUnauthorized, "unauthorized"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewError(dto.CodeForbidden, "forbidden"))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.NewError(dto.CodeNotFound, "order not found"))
	default:
		h.log.Error("Order operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodeInternalError, "internal error"))
	}
}

func orderResponse(o *models.Order, p *models.Payment) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			PetID:      it.PetID,
			PetName:    it.PetName,
			Category:   it.PetCategory,
			Breed:      it.PetBreed,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			TotalPrice: it.TotalPrice.StringFixed(2),
		})
	}

	resp := dto.OrderResponse{
		ID:                o.ID.String(),
		OrderNumber:       o.OrderNumber,
		TotalAmount:       o.TotalAmount.StringFixed(2),
		Currency:          o.Currency,
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		CheckoutSessionID: o.CheckoutSessionID,
		ShippingAddress:   o.ShippingAddress,
		Notes:             o.Notes,
		Items:             items,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if p != nil {
		resp.Payment = &dto.PaymentBrief{
			ID:          p.ID.String(),
			Status:      string(p.Status),
			Amount:      p.Amount.StringFixed(2),
			Currency:    p.Currency,
			ProcessedAt: p.ProcessedAt,
		}
	}
	return resp
}
