// Package producer публикует события писем для сервиса уведомлений.
package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TemplateOrderConfirmed — письмо об оплаченном заказе.
const TemplateOrderConfirmed = "order_confirmed"

const sendTimeout = 5 * time.Second

type EmailProducer struct {
	writer *kafka.Writer
}

func NewEmailProducer(brokers []string, topic string) *EmailProducer {
	return &EmailProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: sendTimeout,
		},
	}
}

// EmailMessage — событие письма в топике уведомлений.
type EmailMessage struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// OrderConfirmedMessage собирает письмо о первом подтверждении оплаты заказа.
func OrderConfirmedMessage(to, orderNumber, amount, currency string) EmailMessage {
	return EmailMessage{
		To:       to,
		Subject:  fmt.Sprintf("Заказ %s оплачен", orderNumber),
		Template: TemplateOrderConfirmed,
		Data: map[string]any{
			"order_number": orderNumber,
			"amount":       amount,
			"currency":     currency,
		},
	}
}

// SendEmail публикует событие. Ключ — ID заказа: события одного заказа
// попадают в одну партицию и доходят до потребителя по порядку.
func (p *EmailProducer) SendEmail(ctx context.Context, key string, msg EmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *EmailProducer) Close() error {
	return p.writer.Close()
}
