package service

import (
	"context"

	"zoovio-backend/internal/producer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionState — тернарное состояние оплаты checkout-сессии у процессора.
type SessionState string

const (
	SessionStatePaid   SessionState = "paid"
	SessionStateUnpaid SessionState = "unpaid"
	SessionStateOther  SessionState = "other"
)

type CreateSessionItem struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal // перевод в минорные единицы — на стороне адаптера
	Quantity    int64
}

type CreateSessionInput struct {
	OrderID       uuid.UUID
	OrderNumber   string
	UserID        uuid.UUID
	Currency      string
	CustomerName  string
	CustomerEmail string
	Items         []CreateSessionItem
}

type CheckoutSessionRef struct {
	ID  string
	URL string
}

// SessionSnapshot — наблюдаемое состояние сессии на момент запроса.
type SessionSnapshot struct {
	State           SessionState
	CustomerEmail   string
	PaymentIntentID string
}

type WebhookEventKind string

const (
	WebhookSessionCompleted WebhookEventKind = "checkout.session.completed"
	WebhookSessionExpired   WebhookEventKind = "checkout.session.expired"
	WebhookChargeSucceeded  WebhookEventKind = "payment_intent.succeeded"
	WebhookChargeFailed     WebhookEventKind = "payment_intent.payment_failed"
	WebhookIgnored          WebhookEventKind = "ignored"
)

// WebhookEvent — уже проверенное по подписи событие процессора.
// Нераспознанные типы приходят как WebhookIgnored (явный no-op, не fallthrough).
type WebhookEvent struct {
	Kind            WebhookEventKind
	RawType         string
	SessionID       string
	PaymentIntentID string
	CustomerEmail   string
	FailureReason   string
}

// ProcessorClient — адаптер платёжного процессора. Конструируется один раз на
// старте процесса и передаётся брокеру явно (никаких глобальных клиентов).
type ProcessorClient interface {
	CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (*CheckoutSessionRef, error)
	GetSessionState(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	// VerifyWebhook проверяет подпись по сырым байтам тела и разбирает событие.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type EmailBus interface {
	SendEmail(ctx context.Context, key string, msg producer.EmailMessage) error
}
