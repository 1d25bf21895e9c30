package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"zoovio-backend/internal/models"
	"zoovio-backend/internal/producer"
	"zoovio-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type checkoutService struct {
	repo       *repository.Repository
	processor  ProcessorClient
	email      EmailBus // nil отключает отправку
	currencies map[string]struct{}
	now        func() time.Time
	log        *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, processor ProcessorClient, email EmailBus, currencies []string, log *zap.Logger) CheckoutService {
	set := make(map[string]struct{}, len(currencies))
	for _, c := range currencies {
		set[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	return &checkoutService{
		repo:       repo,
		processor:  processor,
		email:      email,
		currencies: set,
		now:        time.Now,
		log:        log,
	}
}

func newOrderNumber(now time.Time) (string, error) {
	rng, err := nanorand.Gen(9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ZOO-%d-%s", now.UnixMilli(), strings.ToUpper(rng)), nil
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, in CreateCheckoutInput) (*CheckoutResult, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if _, ok := s.currencies[currency]; !ok {
		return nil, ErrCurrencyNotSupported
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}

	total := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity == 0 {
			return nil, ErrQuantityInvalid
		}
		if !it.Price.IsPositive() {
			return nil, ErrPriceInvalid
		}
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	// Клиентская сумма — только для сверки, авторитетен пересчёт по позициям.
	if !in.DeclaredTotal.IsZero() && !in.DeclaredTotal.Equal(total) {
		return nil, ErrAmountInvalid
	}

	now := s.now()
	orderNumber, err := newOrderNumber(now)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     orderNumber,
		TotalAmount:     total,
		Currency:        currency,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Заказ и позиции — одной транзакцией: либо всё, либо ничего.
	err = s.repo.Orders.WithTx(ctx, func(or repository.OrderRepo, ir repository.OrderItemRepo) error {
		if err := or.Create(ctx, order); err != nil {
			return err
		}
		itemsDB := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			itemsDB = append(itemsDB, models.OrderItem{
				OrderID:     order.ID,
				PetID:       it.PetID,
				PetName:     it.Name,
				PetCategory: it.Category,
				PetBreed:    it.Breed,
				Quantity:    it.Quantity,
				UnitPrice:   it.Price,
				TotalPrice:  it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
				CreatedAt:   now,
			})
		}
		return ir.BulkCreate(ctx, itemsDB)
	})
	if err != nil {
		return nil, err
	}

	sessionItems := make([]CreateSessionItem, 0, len(in.Items))
	for _, it := range in.Items {
		name := it.Name
		if it.Breed != "" {
			name = fmt.Sprintf("%s - %s", it.Name, it.Breed)
		} else if it.Category != "" {
			name = fmt.Sprintf("%s - %s", it.Name, it.Category)
		}
		sessionItems = append(sessionItems, CreateSessionItem{
			Name:        name,
			Description: fmt.Sprintf("Pet ID: %s", it.PetID),
			UnitPrice:   it.Price,
			Quantity:    int64(it.Quantity),
		})
	}

	// Падение процессора здесь оставляет заказ в (pending, pending) без ссылки
	// на сессию — повторная попытка безопасна.
	ref, err := s.processor.CreateCheckoutSession(ctx, CreateSessionInput{
		OrderID:       order.ID,
		OrderNumber:   orderNumber,
		UserID:        userID,
		Currency:      currency,
		CustomerName:  in.Customer.Name,
		CustomerEmail: in.Customer.Email,
		Items:         sessionItems,
	})
	if err != nil {
		s.log.Error("Не удалось создать checkout-сессию у процессора",
			zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, err
	}

	ok, err := s.repo.Orders.SetCheckoutSession(ctx, order.ID, ref.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionAlreadySet
	}

	s.audit(ctx, &userID, "CHECKOUT_SESSION_CREATED", "order", order.ID.String(), nil, map[string]any{
		"order_number": orderNumber,
		"amount":       total,
		"currency":     currency,
		"session_id":   ref.ID,
	}, in.Meta)

	s.log.Info("Checkout-сессия создана",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", orderNumber),
		zap.String("session_id", ref.ID))

	return &CheckoutResult{
		OrderID:     order.ID,
		OrderNumber: orderNumber,
		SessionID:   ref.ID,
		SessionURL:  ref.URL,
	}, nil
}

func (s *checkoutService) VerifySession(ctx context.Context, sessionID string, meta RequestMeta) (*VerifyResult, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	// Чужая сессия неотличима от несуществующей.
	order, err := s.repo.Orders.GetBySessionForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	snap, err := s.processor.GetSessionState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := s.reconcile(ctx, order, snap, "PAYMENT_VERIFIED", meta)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        next.Status,
		PaymentStatus: next.PaymentStatus,
		Amount:        order.TotalAmount,
		Currency:      order.Currency,
		CustomerEmail: snap.CustomerEmail,
	}, nil
}

// reconcile применяет общую таблицу переходов и, при оплате, идемпотентно
// создаёт платёж. Используется и верификацией, и webhook-обработкой.
func (s *checkoutService) reconcile(ctx context.Context, order *models.Order, snap *SessionSnapshot, action string, meta RequestMeta) (OrderState, error) {
	cur := OrderState{Status: order.Status, PaymentStatus: order.PaymentStatus}
	sig := signalFromSessionState(snap.State)

	next, changed := NextOrderState(cur, sig)
	if changed {
		updated, err := s.repo.Orders.UpdateState(ctx, order.ID, next.Status, next.PaymentStatus)
		if err != nil {
			return cur, err
		}
		if !updated {
			// Прочитанное состояние устарело: заказ успел стать терминальным
			// по конкурирующему пути. Поздний сигнал — no-op.
			s.log.Info("Переход заказа отклонён: заказ уже терминален",
				zap.String("order_id", order.ID.String()), zap.String("action", action))
			next, changed = cur, false
		}
	}

	if sig == SignalPaid {
		if err := s.ensurePayment(ctx, order, snap); err != nil {
			return next, err
		}
	}

	if changed {
		s.audit(ctx, &order.UserID, action, "order", order.ID.String(),
			map[string]any{"status": cur.Status, "payment_status": cur.PaymentStatus},
			map[string]any{"status": next.Status, "payment_status": next.PaymentStatus, "session_id": order.CheckoutSessionID},
			meta)

		if next.PaymentStatus == models.PaymentStatusSucceeded {
			s.notifyPaid(ctx, order, snap.CustomerEmail)
		}
	}

	return next, nil
}

// ensurePayment — первый наблюдённый «paid» создаёт платёж; проигрыш гонки
// (запись уже есть) считается успехом, существующая строка авторитетна.
func (s *checkoutService) ensurePayment(ctx context.Context, order *models.Order, snap *SessionSnapshot) error {
	if order.CheckoutSessionID == nil {
		return nil
	}

	now := s.now()
	p := &models.Payment{
		OrderID:           &order.ID,
		UserID:            order.UserID,
		CheckoutSessionID: order.CheckoutSessionID,
		Amount:            order.TotalAmount,
		Currency:          order.Currency,
		PaymentMethodType: "card",
		Status:            models.PaymentStatusSucceeded,
		ProcessedAt:       &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if snap.CustomerEmail != "" {
		email := snap.CustomerEmail
		p.BillingEmail = &email
	}
	if snap.PaymentIntentID != "" {
		intent := snap.PaymentIntentID
		p.PaymentIntentID = &intent
	}

	created, err := s.repo.Payments.CreateIfAbsent(ctx, p)
	if err != nil {
		return err
	}
	if !created {
		s.log.Debug("Платёж по сессии уже существует, пропускаем",
			zap.Stringp("session_id", order.CheckoutSessionID))
	}
	return nil
}

func (s *checkoutService) HandleWebhook(ctx context.Context, payload []byte, signature string, meta RequestMeta) error {
	event, err := s.processor.VerifyWebhook(payload, signature)
	if err != nil {
		s.log.Warn("Подпись webhook не прошла проверку", zap.Error(err))
		return ErrInvalidSignature
	}

	switch event.Kind {
	case WebhookSessionCompleted:
		return s.onSessionOutcome(ctx, event, SessionStatePaid, "WEBHOOK_SESSION_COMPLETED", meta)

	case WebhookSessionExpired:
		return s.onSessionOutcome(ctx, event, SessionStateUnpaid, "WEBHOOK_SESSION_EXPIRED", meta)

	case WebhookChargeSucceeded:
		return s.onChargeOutcome(ctx, event, models.PaymentStatusSucceeded, meta)

	case WebhookChargeFailed:
		return s.onChargeOutcome(ctx, event, models.PaymentStatusFailed, meta)

	default:
		// Явный no-op: событие принято, но нас не касается.
		s.log.Info("Webhook-событие проигнорировано", zap.String("type", event.RawType))
		return nil
	}
}

func (s *checkoutService) onSessionOutcome(ctx context.Context, event *WebhookEvent, state SessionState, action string, meta RequestMeta) error {
	order, err := s.repo.Orders.GetBySession(ctx, event.SessionID)
	if err != nil {
		return err
	}
	if order == nil {
		// Неизвестная сессия: подтверждаем приём, чтобы не ловить шторм повторов.
		s.log.Warn("Webhook по неизвестной сессии",
			zap.String("session_id", event.SessionID), zap.String("type", event.RawType))
		return nil
	}

	snap := &SessionSnapshot{
		State:           state,
		CustomerEmail:   event.CustomerEmail,
		PaymentIntentID: event.PaymentIntentID,
	}
	_, err = s.reconcile(ctx, order, snap, action, meta)
	return err
}

func (s *checkoutService) onChargeOutcome(ctx context.Context, event *WebhookEvent, status models.PaymentStatus, meta RequestMeta) error {
	payment, err := s.repo.Payments.GetByIntent(ctx, event.PaymentIntentID)
	if err != nil {
		return err
	}
	if payment == nil {
		s.log.Warn("Webhook по неизвестному платежу",
			zap.String("payment_intent_id", event.PaymentIntentID), zap.String("type", event.RawType))
		return nil
	}

	var reason *string
	if status == models.PaymentStatusFailed && event.FailureReason != "" {
		r := event.FailureReason
		reason = &r
	}

	updated, err := s.repo.Payments.MarkOutcomeByIntent(ctx, event.PaymentIntentID, status, reason, s.now())
	if err != nil {
		return err
	}
	if !updated {
		// Платёж уже терминален — повтор события.
		return nil
	}

	s.audit(ctx, &payment.UserID, "WEBHOOK_CHARGE_OUTCOME", "payment", payment.ID.String(),
		map[string]any{"status": payment.Status},
		map[string]any{"status": status, "payment_intent_id": event.PaymentIntentID},
		meta)
	return nil
}

func (s *checkoutService) PaymentHistory(ctx context.Context) ([]repository.PaymentHistoryRow, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Payments.HistoryByUser(ctx, userID)
}

func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *models.Payment, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, nil, ErrForbidden
	}

	payment, err := s.repo.Payments.GetByOrderID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, payment, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	ordersPtr, total, err := s.repo.Orders.List(ctx, repository.OrderListFilter{
		UserID: &userID,
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

func (s *checkoutService) CancelOrder(ctx context.Context, id uuid.UUID, meta RequestMeta) (*models.Order, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}

	cur := OrderState{Status: order.Status, PaymentStatus: order.PaymentStatus}
	if cur.Status == models.OrderStatusCancelled {
		return order, ErrAlreadyCancelled
	}
	if cur.Terminal() {
		return nil, ErrOrderNotCancellable
	}

	updated, err := s.repo.Orders.UpdateState(ctx, id, models.OrderStatusCancelled, models.PaymentStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Между чтением и записью заказ стал терминальным (например, оплачен).
		return nil, ErrOrderNotCancellable
	}

	s.audit(ctx, &userID, "ORDER_CANCELLED", "order", id.String(),
		map[string]any{"status": cur.Status, "payment_status": cur.PaymentStatus},
		map[string]any{"status": models.OrderStatusCancelled, "payment_status": models.PaymentStatusCancelled},
		meta)

	return s.repo.Orders.GetByID(ctx, id)
}

// audit пишет запись журнала; сбой записи не валит основную операцию.
func (s *checkoutService) audit(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, oldValues, newValues map[string]any, meta RequestMeta) {
	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  s.now(),
	}
	if oldValues != nil {
		if b, err := json.Marshal(oldValues); err == nil {
			v := string(b)
			entry.OldValues = &v
		}
	}
	if newValues != nil {
		if b, err := json.Marshal(newValues); err == nil {
			v := string(b)
			entry.NewValues = &v
		}
	}
	if err := s.repo.Audit.Create(ctx, entry); err != nil {
		s.log.Error("Не удалось записать audit-журнал",
			zap.String("action", action), zap.String("entity_id", entityID), zap.Error(err))
	}
}

func (s *checkoutService) notifyPaid(ctx context.Context, order *models.Order, customerEmail string) {
	if s.email == nil || customerEmail == "" {
		return
	}
	err := s.email.SendEmail(ctx, order.ID.String(),
		producer.OrderConfirmedMessage(customerEmail, order.OrderNumber, order.TotalAmount.StringFixed(2), order.Currency))
	if err != nil {
		s.log.Warn("Не удалось отправить событие подтверждения заказа",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}
