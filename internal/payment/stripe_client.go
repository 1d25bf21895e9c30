// Package payment — адаптер Stripe поверх общего контракта ProcessorClient.
// Вся специфика Stripe (минорные единицы, типы событий, подписи) остаётся здесь.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"zoovio-backend/internal/service"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string // сюда Stripe подставит {CHECKOUT_SESSION_ID}
	CancelURL     string
}

type StripeClient struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	log           *zap.Logger
}

// NewStripeClient создаёт клиента один раз на старте процесса.
// Глобальный stripe.Key не трогаем — ключ живёт внутри client.API.
func NewStripeClient(cfg Config, log *zap.Logger) *StripeClient {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeClient{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		log:           log,
	}
}

// minorUnits переводит decimal-сумму в минорные единицы валюты.
// Округление half-up — 19.99 становится 1999, никогда 1998.
func minorUnits(amt decimal.Decimal) int64 {
	return amt.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, in service.CreateSessionInput) (*service.CheckoutSessionRef, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Items))
	for _, it := range in.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(in.Currency),
				UnitAmount: stripe.Int64(minorUnits(it.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(it.Name),
					Description: stripe.String(it.Description),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(c.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(c.cancelURL),
		CustomerEmail:     stripe.String(in.CustomerEmail),
		ClientReferenceID: stripe.String(in.OrderID.String()),
	}
	params.Context = ctx
	params.AddMetadata("order_id", in.OrderID.String())
	params.AddMetadata("order_number", in.OrderNumber)
	params.AddMetadata("user_id", in.UserID.String())

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return &service.CheckoutSessionRef{ID: sess.ID, URL: sess.URL}, nil
}

func (c *StripeClient) GetSessionState(ctx context.Context, sessionID string) (*service.SessionSnapshot, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, c.mapErr(err)
	}

	snap := &service.SessionSnapshot{State: sessionState(sess.PaymentStatus)}
	if sess.CustomerDetails != nil {
		snap.CustomerEmail = sess.CustomerDetails.Email
	} else if sess.CustomerEmail != "" {
		snap.CustomerEmail = sess.CustomerEmail
	}
	if sess.PaymentIntent != nil {
		snap.PaymentIntentID = sess.PaymentIntent.ID
	}
	return snap, nil
}

// sessionState приводит payment_status Stripe к тернарному состоянию.
// no_payment_required не считается оплатой: в нашем каталоге бесплатных
// позиций нет, такой статус означает неожиданную конфигурацию сессии.
func sessionState(ps stripe.CheckoutSessionPaymentStatus) service.SessionState {
	switch ps {
	case stripe.CheckoutSessionPaymentStatusPaid:
		return service.SessionStatePaid
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		return service.SessionStateUnpaid
	default:
		return service.SessionStateOther
	}
}

func (c *StripeClient) VerifyWebhook(payload []byte, signature string) (*service.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature: %w", err)
	}
	return c.parseEvent(event)
}

// Разбираем только нужные поля событий; полные структуры Stripe не нужны.
type sessionPayload struct {
	ID              string `json:"id"`
	PaymentIntent   string `json:"payment_intent"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

type intentPayload struct {
	ID               string `json:"id"`
	LastPaymentError struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

func (c *StripeClient) parseEvent(event stripe.Event) (*service.WebhookEvent, error) {
	out := &service.WebhookEvent{RawType: string(event.Type)}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired":
		var sp sessionPayload
		if err := json.Unmarshal(event.Data.Raw, &sp); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		if event.Type == "checkout.session.completed" {
			out.Kind = service.WebhookSessionCompleted
		} else {
			out.Kind = service.WebhookSessionExpired
		}
		out.SessionID = sp.ID
		out.PaymentIntentID = sp.PaymentIntent
		out.CustomerEmail = sp.CustomerDetails.Email
		if out.CustomerEmail == "" {
			out.CustomerEmail = sp.CustomerEmail
		}

	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var ip intentPayload
		if err := json.Unmarshal(event.Data.Raw, &ip); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		if event.Type == "payment_intent.succeeded" {
			out.Kind = service.WebhookChargeSucceeded
		} else {
			out.Kind = service.WebhookChargeFailed
			out.FailureReason = ip.LastPaymentError.Message
		}
		out.PaymentIntentID = ip.ID

	default:
		out.Kind = service.WebhookIgnored
	}

	return out, nil
}

// mapErr переводит ошибки Stripe в доменные: 401 — проблема нашей
// конфигурации ключа, остальное — недоступность процессора.
func (c *StripeClient) mapErr(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.HTTPStatusCode == 401 {
			c.log.Error("Stripe отклонил API-ключ", zap.String("code", string(se.Code)))
			return service.ErrProcessorAuth
		}
		c.log.Error("Ошибка Stripe API",
			zap.String("code", string(se.Code)), zap.Int("http_status", se.HTTPStatusCode))
	}
	return fmt.Errorf("%w: %v", service.ErrProcessorUnavailable, err)
}
