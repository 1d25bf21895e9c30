package service

import "zoovio-backend/internal/models"

// OrderState — пара (status, payment_status) заказа.
type OrderState struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
}

// PaymentSignal — сигнал процессора, приведённый к трём исходам.
type PaymentSignal string

const (
	SignalPaid   PaymentSignal = "paid"
	SignalUnpaid PaymentSignal = "unpaid"
	SignalOther  PaymentSignal = "other"
)

// Terminal: из succeeded и cancelled переходов нет, допускается только
// идемпотентное повторение того же состояния.
func (s OrderState) Terminal() bool {
	return s.PaymentStatus == models.PaymentStatusSucceeded || s.Status == models.OrderStatusCancelled
}

// NextOrderState — единая таблица переходов, общая для синхронной верификации
// и webhook-сверки. Чистая функция: оба пути при одном и том же состоянии
// процессора сходятся к одному результату независимо от порядка вызовов.
func NextOrderState(cur OrderState, sig PaymentSignal) (OrderState, bool) {
	switch sig {
	case SignalPaid:
		if cur.Terminal() {
			return cur, false
		}
		return OrderState{Status: models.OrderStatusConfirmed, PaymentStatus: models.PaymentStatusSucceeded}, true
	case SignalUnpaid:
		if cur.Terminal() {
			return cur, false
		}
		return OrderState{Status: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusFailed}, true
	default:
		return cur, false
	}
}

func signalFromSessionState(st SessionState) PaymentSignal {
	switch st {
	case SessionStatePaid:
		return SignalPaid
	case SessionStateUnpaid:
		return SignalUnpaid
	default:
		return SignalOther
	}
}
