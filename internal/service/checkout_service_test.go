package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"zoovio-backend/internal/models"
	"zoovio-backend/internal/repository"
	"zoovio-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Моки для всех зависимостей CheckoutService

// MockOrderRepo
type MockOrderRepo struct {
	CreateFunc              func(ctx context.Context, o *models.Order) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUserFunc      func(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	GetBySessionFunc        func(ctx context.Context, sessionID string) (*models.Order, error)
	GetBySessionForUserFunc func(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Order, error)
	SetCheckoutSessionFunc  func(ctx context.Context, id uuid.UUID, sessionID string) (bool, error)
	UpdateStateFunc         func(ctx context.Context, id uuid.UUID, status models.OrderStatus, paymentStatus models.PaymentStatus) (bool, error)
	ListFunc                func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
	WithTxFunc              func(ctx context.Context, fn func(repository.OrderRepo, repository.OrderItemRepo) error) error

	items *MockOrderItemRepo
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	if m.GetBySessionFunc != nil {
		return m.GetBySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetBySessionForUser(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Order, error) {
	if m.GetBySessionForUserFunc != nil {
		return m.GetBySessionForUserFunc(ctx, sessionID, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) (bool, error) {
	if m.SetCheckoutSessionFunc != nil {
		return m.SetCheckoutSessionFunc(ctx, id, sessionID)
	}
	return true, nil
}

func (m *MockOrderRepo) UpdateState(ctx context.Context, id uuid.UUID, status models.OrderStatus, paymentStatus models.PaymentStatus) (bool, error) {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, id, status, paymentStatus)
	}
	return true, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) WithTx(ctx context.Context, fn func(repository.OrderRepo, repository.OrderItemRepo) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	items := m.items
	if items == nil {
		items = &MockOrderItemRepo{}
	}
	return fn(m, items)
}

// MockOrderItemRepo
type MockOrderItemRepo struct {
	BulkCreateFunc   func(ctx context.Context, items []models.OrderItem) error
	GetByOrderIDFunc func(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

func (m *MockOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

// MockPaymentRepo
type MockPaymentRepo struct {
	CreateIfAbsentFunc      func(ctx context.Context, p *models.Payment) (bool, error)
	GetBySessionFunc        func(ctx context.Context, sessionID string) (*models.Payment, error)
	GetByIntentFunc         func(ctx context.Context, intentID string) (*models.Payment, error)
	GetByOrderIDFunc        func(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	MarkOutcomeByIntentFunc func(ctx context.Context, intentID string, status models.PaymentStatus, failureReason *string, at time.Time) (bool, error)
	HistoryByUserFunc       func(ctx context.Context, userID uuid.UUID) ([]repository.PaymentHistoryRow, error)

	created []*models.Payment
}

func (m *MockPaymentRepo) CreateIfAbsent(ctx context.Context, p *models.Payment) (bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, p)
	}
	// Поведение частичного UNIQUE: первая вставка по сессии выигрывает.
	for _, prev := range m.created {
		if prev.CheckoutSessionID != nil && p.CheckoutSessionID != nil && *prev.CheckoutSessionID == *p.CheckoutSessionID {
			return false, nil
		}
	}
	m.created = append(m.created, p)
	return true, nil
}

func (m *MockPaymentRepo) GetBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	if m.GetBySessionFunc != nil {
		return m.GetBySessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockPaymentRepo) GetByIntent(ctx context.Context, intentID string) (*models.Payment, error) {
	if m.GetByIntentFunc != nil {
		return m.GetByIntentFunc(ctx, intentID)
	}
	return nil, nil
}

func (m *MockPaymentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockPaymentRepo) MarkOutcomeByIntent(ctx context.Context, intentID string, status models.PaymentStatus, failureReason *string, at time.Time) (bool, error) {
	if m.MarkOutcomeByIntentFunc != nil {
		return m.MarkOutcomeByIntentFunc(ctx, intentID, status, failureReason, at)
	}
	return false, nil
}

func (m *MockPaymentRepo) HistoryByUser(ctx context.Context, userID uuid.UUID) ([]repository.PaymentHistoryRow, error) {
	if m.HistoryByUserFunc != nil {
		return m.HistoryByUserFunc(ctx, userID)
	}
	return nil, nil
}

// MockAuditRepo
type MockAuditRepo struct {
	CreateFunc func(ctx context.Context, entry *models.AuditLog) error
	entries    []*models.AuditLog
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.entries = append(m.entries, entry)
	return nil
}

// MockProcessor
type MockProcessor struct {
	CreateCheckoutSessionFunc func(ctx context.Context, in service.CreateSessionInput) (*service.CheckoutSessionRef, error)
	GetSessionStateFunc       func(ctx context.Context, sessionID string) (*service.SessionSnapshot, error)
	VerifyWebhookFunc         func(payload []byte, signature string) (*service.WebhookEvent, error)
}

func (m *MockProcessor) CreateCheckoutSession(ctx context.Context, in service.CreateSessionInput) (*service.CheckoutSessionRef, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, in)
	}
	return &service.CheckoutSessionRef{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (m *MockProcessor) GetSessionState(ctx context.Context, sessionID string) (*service.SessionSnapshot, error) {
	if m.GetSessionStateFunc != nil {
		return m.GetSessionStateFunc(ctx, sessionID)
	}
	return &service.SessionSnapshot{State: service.SessionStateOther}, nil
}

func (m *MockProcessor) VerifyWebhook(payload []byte, signature string) (*service.WebhookEvent, error) {
	if m.VerifyWebhookFunc != nil {
		return m.VerifyWebhookFunc(payload, signature)
	}
	return &service.WebhookEvent{Kind: service.WebhookIgnored, RawType: "unknown"}, nil
}

type harness struct {
	orders    *MockOrderRepo
	payments  *MockPaymentRepo
	audit     *MockAuditRepo
	processor *MockProcessor
	svc       service.CheckoutService
}

func newHarness() *harness {
	orders := &MockOrderRepo{items: &MockOrderItemRepo{}}
	payments := &MockPaymentRepo{}
	audit := &MockAuditRepo{}
	processor := &MockProcessor{}

	repo := &repository.Repository{
		Orders:     orders,
		OrderItems: orders.items,
		Payments:   payments,
		Audit:      audit,
	}
	svc := service.NewCheckoutService(repo, processor, nil, []string{"USD", "EUR"}, zap.NewNop())
	return &harness{orders: orders, payments: payments, audit: audit, processor: processor, svc: svc}
}

func authCtx(userID uuid.UUID) context.Context {
	return service.WithUserID(context.Background(), userID)
}

func cartInput() service.CreateCheckoutInput {
	return service.CreateCheckoutInput{
		Currency: "USD",
		Customer: service.CustomerInfo{Name: "Test User", Email: "test@example.com"},
		Items: []service.CartItem{
			{PetID: "dog-1", Name: "Dog", Quantity: 1, Price: decimal.RequireFromString("1200.00")},
			{PetID: "cat-1", Name: "Cat", Quantity: 2, Price: decimal.RequireFromString("800.00")},
		},
	}
}

func TestCreateCheckoutSession_TotalAndPersistence(t *testing.T) {
	h := newHarness()
	userID := uuid.New()

	var createdOrder *models.Order
	var createdItems []models.OrderItem
	h.orders.CreateFunc = func(ctx context.Context, o *models.Order) error {
		o.ID = uuid.New()
		createdOrder = o
		return nil
	}
	h.orders.items.BulkCreateFunc = func(ctx context.Context, items []models.OrderItem) error {
		createdItems = items
		return nil
	}

	res, err := h.svc.CreateCheckoutSession(authCtx(userID), cartInput())
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}

	if createdOrder == nil {
		t.Fatal("order was not persisted")
	}
	if got := createdOrder.TotalAmount.StringFixed(2); got != "2800.00" {
		t.Fatalf("total = %s, want 2800.00", got)
	}
	if createdOrder.Status != models.OrderStatusPending || createdOrder.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("new order must be pending/pending, got %s/%s", createdOrder.Status, createdOrder.PaymentStatus)
	}
	if len(createdItems) != 2 {
		t.Fatalf("items persisted = %d, want 2", len(createdItems))
	}
	if got := createdItems[1].TotalPrice.StringFixed(2); got != "1600.00" {
		t.Fatalf("item total = %s, want 1600.00", got)
	}
	if !strings.HasPrefix(res.OrderNumber, "ZOO-") {
		t.Fatalf("order number %q must start with ZOO-", res.OrderNumber)
	}
	if res.SessionID != "cs_test_1" || res.SessionURL == "" {
		t.Fatalf("unexpected session ref: %+v", res)
	}
}

func TestCreateCheckoutSession_Validation(t *testing.T) {
	h := newHarness()
	userID := uuid.New()

	cases := []struct {
		name   string
		mutate func(*service.CreateCheckoutInput)
		want   error
	}{
		{"empty items", func(in *service.CreateCheckoutInput) { in.Items = nil }, service.ErrEmptyItems},
		{"zero quantity", func(in *service.CreateCheckoutInput) { in.Items[0].Quantity = 0 }, service.ErrQuantityInvalid},
		{"non-positive price", func(in *service.CreateCheckoutInput) { in.Items[0].Price = decimal.Zero }, service.ErrPriceInvalid},
		{"unsupported currency", func(in *service.CreateCheckoutInput) { in.Currency = "JPY" }, service.ErrCurrencyNotSupported},
		{"declared amount mismatch", func(in *service.CreateCheckoutInput) { in.DeclaredTotal = decimal.NewFromInt(100) }, service.ErrAmountInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := cartInput()
			tc.mutate(&in)
			_, err := h.svc.CreateCheckoutSession(authCtx(userID), in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := h.svc.CreateCheckoutSession(context.Background(), cartInput()); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("anonymous checkout: err = %v, want ErrUnauthorized", err)
	}
}

func TestCreateCheckoutSession_SessionRefConflict(t *testing.T) {
	h := newHarness()
	h.orders.SetCheckoutSessionFunc = func(ctx context.Context, id uuid.UUID, sessionID string) (bool, error) {
		return false, nil // ссылка уже установлена кем-то другим
	}

	_, err := h.svc.CreateCheckoutSession(authCtx(uuid.New()), cartInput())
	if !errors.Is(err, service.ErrSessionAlreadySet) {
		t.Fatalf("err = %v, want ErrSessionAlreadySet", err)
	}
}

func TestVerifySession_PaidTransitionAndPayment(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	sessionID := "cs_test_paid"

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		OrderNumber:       "ZOO-1-TEST",
		TotalAmount:       decimal.RequireFromString("2800.00"),
		Currency:          "USD",
		CheckoutSessionID: &sessionID,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
	}

	h.orders.GetBySessionForUserFunc = func(ctx context.Context, sid string, uid uuid.UUID) (*models.Order, error) {
		if sid == sessionID && uid == userID {
			return order, nil
		}
		return nil, nil
	}
	var updatedStatus models.OrderStatus
	var updatedPayment models.PaymentStatus
	h.orders.UpdateStateFunc = func(ctx context.Context, id uuid.UUID, st models.OrderStatus, ps models.PaymentStatus) (bool, error) {
		updatedStatus, updatedPayment = st, ps
		order.Status, order.PaymentStatus = st, ps
		return true, nil
	}
	h.processor.GetSessionStateFunc = func(ctx context.Context, sid string) (*service.SessionSnapshot, error) {
		return &service.SessionSnapshot{State: service.SessionStatePaid, CustomerEmail: "test@example.com", PaymentIntentID: "pi_1"}, nil
	}

	res, err := h.svc.VerifySession(authCtx(userID), sessionID, service.RequestMeta{})
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if res.Status != models.OrderStatusConfirmed || res.PaymentStatus != models.PaymentStatusSucceeded {
		t.Fatalf("result state = %s/%s, want confirmed/succeeded", res.Status, res.PaymentStatus)
	}
	if updatedStatus != models.OrderStatusConfirmed || updatedPayment != models.PaymentStatusSucceeded {
		t.Fatalf("persisted state = %s/%s, want confirmed/succeeded", updatedStatus, updatedPayment)
	}
	if len(h.payments.created) != 1 {
		t.Fatalf("payments created = %d, want 1", len(h.payments.created))
	}
	p := h.payments.created[0]
	if p.Status != models.PaymentStatusSucceeded || p.Amount.StringFixed(2) != "2800.00" {
		t.Fatalf("payment = %s %s, want succeeded 2800.00", p.Status, p.Amount.StringFixed(2))
	}

	// Повторная верификация идемпотентна: второй платёж не появляется.
	if _, err := h.svc.VerifySession(authCtx(userID), sessionID, service.RequestMeta{}); err != nil {
		t.Fatalf("repeat VerifySession: %v", err)
	}
	if len(h.payments.created) != 1 {
		t.Fatalf("payments after repeat = %d, want 1", len(h.payments.created))
	}
}

func TestVerifySession_ForeignSessionLooksMissing(t *testing.T) {
	h := newHarness()
	// GetBySessionForUser ничего не находит для чужого пользователя.
	_, err := h.svc.VerifySession(authCtx(uuid.New()), "cs_foreign", service.RequestMeta{})
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	h := newHarness()
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return nil, errors.New("bad signature")
	}

	err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=bad", service.RequestMeta{})
	if !errors.Is(err, service.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestHandleWebhook_CompletedIdempotent(t *testing.T) {
	h := newHarness()
	sessionID := "cs_test_hook"

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		TotalAmount:       decimal.RequireFromString("19.99"),
		Currency:          "USD",
		CheckoutSessionID: &sessionID,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
	}
	h.orders.GetBySessionFunc = func(ctx context.Context, sid string) (*models.Order, error) {
		if sid == sessionID {
			return order, nil
		}
		return nil, nil
	}
	updates := 0
	h.orders.UpdateStateFunc = func(ctx context.Context, id uuid.UUID, st models.OrderStatus, ps models.PaymentStatus) (bool, error) {
		updates++
		order.Status, order.PaymentStatus = st, ps
		return true, nil
	}
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{
			Kind:      service.WebhookSessionCompleted,
			RawType:   "checkout.session.completed",
			SessionID: sessionID,
		}, nil
	}

	// Одно и то же событие доставлено трижды.
	for i := 0; i < 3; i++ {
		if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	if updates != 1 {
		t.Fatalf("state updates = %d, want 1", updates)
	}
	if len(h.payments.created) != 1 {
		t.Fatalf("payments created = %d, want 1", len(h.payments.created))
	}
	if order.Status != models.OrderStatusConfirmed || order.PaymentStatus != models.PaymentStatusSucceeded {
		t.Fatalf("order state = %s/%s, want confirmed/succeeded", order.Status, order.PaymentStatus)
	}
}

func TestHandleWebhook_PaidAfterCancelKeepsCancelledButRecordsPayment(t *testing.T) {
	h := newHarness()
	sessionID := "cs_test_late"

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		TotalAmount:       decimal.RequireFromString("50.00"),
		Currency:          "USD",
		CheckoutSessionID: &sessionID,
		Status:            models.OrderStatusCancelled,
		PaymentStatus:     models.PaymentStatusCancelled,
	}
	h.orders.GetBySessionFunc = func(ctx context.Context, sid string) (*models.Order, error) {
		return order, nil
	}
	h.orders.UpdateStateFunc = func(ctx context.Context, id uuid.UUID, st models.OrderStatus, ps models.PaymentStatus) (bool, error) {
		t.Fatal("terminal order must not change state")
		return false, nil
	}
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{
			Kind:      service.WebhookSessionCompleted,
			RawType:   "checkout.session.completed",
			SessionID: sessionID,
		}, nil
	}

	if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	// Заказ не воскресает, но зафиксированное списание не теряется.
	if order.Status != models.OrderStatusCancelled {
		t.Fatalf("order status = %s, want cancelled", order.Status)
	}
	if len(h.payments.created) != 1 {
		t.Fatalf("payments created = %d, want 1", len(h.payments.created))
	}
}

func TestHandleWebhook_UnknownSessionAcked(t *testing.T) {
	h := newHarness()
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{
			Kind:      service.WebhookSessionExpired,
			RawType:   "checkout.session.expired",
			SessionID: "cs_unknown",
		}, nil
	}

	// Сессия нам неизвестна: событие подтверждаем без ошибки.
	if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
}

func TestHandleWebhook_IgnoredKindNoop(t *testing.T) {
	h := newHarness()
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{Kind: service.WebhookIgnored, RawType: "customer.created"}, nil
	}
	h.orders.GetBySessionFunc = func(ctx context.Context, sid string) (*models.Order, error) {
		t.Fatal("ignored event must not touch storage")
		return nil, nil
	}

	if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
}

func TestHandleWebhook_ExpiredCancelsOrder(t *testing.T) {
	h := newHarness()
	sessionID := "cs_test_exp"

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		TotalAmount:       decimal.RequireFromString("10.00"),
		Currency:          "USD",
		CheckoutSessionID: &sessionID,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
	}
	h.orders.GetBySessionFunc = func(ctx context.Context, sid string) (*models.Order, error) {
		return order, nil
	}
	h.orders.UpdateStateFunc = func(ctx context.Context, id uuid.UUID, st models.OrderStatus, ps models.PaymentStatus) (bool, error) {
		order.Status, order.PaymentStatus = st, ps
		return true, nil
	}
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{
			Kind:      service.WebhookSessionExpired,
			RawType:   "checkout.session.expired",
			SessionID: sessionID,
		}, nil
	}

	if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if order.Status != models.OrderStatusCancelled || order.PaymentStatus != models.PaymentStatusFailed {
		t.Fatalf("order state = %s/%s, want cancelled/failed", order.Status, order.PaymentStatus)
	}
	if len(h.payments.created) != 0 {
		t.Fatalf("payments created = %d, want 0", len(h.payments.created))
	}
}

func TestHandleWebhook_StaleExpiryDoesNotDowngradePaidOrder(t *testing.T) {
	h := newHarness()
	sessionID := "cs_test_race"

	// В хранилище уже терминальный успех, но обработчик expired-события
	// прочитал заказ до коммита конкурирующей оплаты.
	stored := &models.Order{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		TotalAmount:       decimal.RequireFromString("2800.00"),
		Currency:          "USD",
		CheckoutSessionID: &sessionID,
		Status:            models.OrderStatusConfirmed,
		PaymentStatus:     models.PaymentStatusSucceeded,
	}
	stale := *stored
	stale.Status, stale.PaymentStatus = models.OrderStatusPending, models.PaymentStatusPending

	h.orders.GetBySessionFunc = func(ctx context.Context, sid string) (*models.Order, error) {
		return &stale, nil
	}
	// Условная запись: терминальный заказ под WHERE не попадает.
	h.orders.UpdateStateFunc = func(ctx context.Context, id uuid.UUID, st models.OrderStatus, ps models.PaymentStatus) (bool, error) {
		if stored.PaymentStatus == models.PaymentStatusSucceeded || stored.Status == models.OrderStatusCancelled {
			return false, nil
		}
		stored.Status, stored.PaymentStatus = st, ps
		return true, nil
	}
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{
			Kind:      service.WebhookSessionExpired,
			RawType:   "checkout.session.expired",
			SessionID: sessionID,
		}, nil
	}

	if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	// Поздний expired не перезаписывает оплаченный заказ.
	if stored.Status != models.OrderStatusConfirmed || stored.PaymentStatus != models.PaymentStatusSucceeded {
		t.Fatalf("stored state = %s/%s, want confirmed/succeeded", stored.Status, stored.PaymentStatus)
	}
	if len(h.audit.entries) != 0 {
		t.Fatalf("audit entries = %d, want 0 (отклонённый переход не журналируется)", len(h.audit.entries))
	}
}

func TestHandleWebhook_ChargeFailedMarksPayment(t *testing.T) {
	h := newHarness()
	intent := "pi_fail"
	payment := &models.Payment{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		PaymentIntentID: &intent,
		Status:          models.PaymentStatusPending,
	}

	h.payments.GetByIntentFunc = func(ctx context.Context, id string) (*models.Payment, error) {
		if id == intent {
			return payment, nil
		}
		return nil, nil
	}
	var gotStatus models.PaymentStatus
	var gotReason *string
	h.payments.MarkOutcomeByIntentFunc = func(ctx context.Context, id string, status models.PaymentStatus, reason *string, at time.Time) (bool, error) {
		gotStatus, gotReason = status, reason
		return true, nil
	}
	h.processor.VerifyWebhookFunc = func(payload []byte, signature string) (*service.WebhookEvent, error) {
		return &service.WebhookEvent{
			Kind:            service.WebhookChargeFailed,
			RawType:         "payment_intent.payment_failed",
			PaymentIntentID: intent,
			FailureReason:   "card declined",
		}, nil
	}

	if err := h.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig", service.RequestMeta{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if gotStatus != models.PaymentStatusFailed {
		t.Fatalf("status = %s, want failed", gotStatus)
	}
	if gotReason == nil || *gotReason != "card declined" {
		t.Fatalf("reason = %v, want card declined", gotReason)
	}
}

func TestCancelOrder(t *testing.T) {
	h := newHarness()
	userID := uuid.New()

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	h.orders.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		if id == order.ID {
			return order, nil
		}
		return nil, nil
	}
	h.orders.UpdateStateFunc = func(ctx context.Context, id uuid.UUID, st models.OrderStatus, ps models.PaymentStatus) (bool, error) {
		order.Status, order.PaymentStatus = st, ps
		return true, nil
	}

	got, err := h.svc.CancelOrder(authCtx(userID), order.ID, service.RequestMeta{})
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if got.Status != models.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}

	// Повторная отмена — идемпотентная ошибка.
	if _, err := h.svc.CancelOrder(authCtx(userID), order.ID, service.RequestMeta{}); !errors.Is(err, service.ErrAlreadyCancelled) {
		t.Fatalf("repeat cancel: err = %v, want ErrAlreadyCancelled", err)
	}

	// Оплаченный заказ отменить нельзя.
	order.Status, order.PaymentStatus = models.OrderStatusConfirmed, models.PaymentStatusSucceeded
	if _, err := h.svc.CancelOrder(authCtx(userID), order.ID, service.RequestMeta{}); !errors.Is(err, service.ErrOrderNotCancellable) {
		t.Fatalf("cancel paid: err = %v, want ErrOrderNotCancellable", err)
	}

	// Чужой заказ недоступен.
	order.Status, order.PaymentStatus = models.OrderStatusPending, models.PaymentStatusPending
	if _, err := h.svc.CancelOrder(authCtx(uuid.New()), order.ID, service.RequestMeta{}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("foreign cancel: err = %v, want ErrForbidden", err)
	}
}
