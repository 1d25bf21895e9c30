package service

import (
	"testing"

	"zoovio-backend/internal/models"
)

func TestNextOrderState_Table(t *testing.T) {
	pending := OrderState{Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	confirmed := OrderState{Status: models.OrderStatusConfirmed, PaymentStatus: models.PaymentStatusSucceeded}
	cancelled := OrderState{Status: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusFailed}

	cases := []struct {
		name    string
		cur     OrderState
		sig     PaymentSignal
		want    OrderState
		changed bool
	}{
		{"pending+paid -> confirmed/succeeded", pending, SignalPaid, confirmed, true},
		{"pending+unpaid -> cancelled/failed", pending, SignalUnpaid, cancelled, true},
		{"pending+other -> no-op", pending, SignalOther, pending, false},
		{"confirmed+paid -> idempotent no-op", confirmed, SignalPaid, confirmed, false},
		{"confirmed+unpaid -> terminal, no downgrade", confirmed, SignalUnpaid, confirmed, false},
		{"cancelled+paid -> terminal, no resurrection", cancelled, SignalPaid, cancelled, false},
		{"cancelled+unpaid -> idempotent no-op", cancelled, SignalUnpaid, cancelled, false},
		{"cancelled+other -> no-op", cancelled, SignalOther, cancelled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := NextOrderState(tc.cur, tc.sig)
			if got != tc.want || changed != tc.changed {
				t.Fatalf("NextOrderState(%+v, %s) = %+v, %v; want %+v, %v",
					tc.cur, tc.sig, got, changed, tc.want, tc.changed)
			}
		})
	}
}

func TestNextOrderState_Convergence(t *testing.T) {
	// Любая последовательность сигналов после первого терминального исхода
	// не меняет состояние: оба пути сверки сходятся к одному результату.
	start := OrderState{Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}

	st, _ := NextOrderState(start, SignalPaid)
	for _, sig := range []PaymentSignal{SignalPaid, SignalUnpaid, SignalOther, SignalPaid} {
		next, changed := NextOrderState(st, sig)
		if changed || next != st {
			t.Fatalf("terminal state mutated by %s: %+v -> %+v", sig, st, next)
		}
	}
}

func TestOrderState_Terminal(t *testing.T) {
	cases := []struct {
		st   OrderState
		want bool
	}{
		{OrderState{models.OrderStatusPending, models.PaymentStatusPending}, false},
		{OrderState{models.OrderStatusProcessing, models.PaymentStatusProcessing}, false},
		{OrderState{models.OrderStatusConfirmed, models.PaymentStatusSucceeded}, true},
		{OrderState{models.OrderStatusCancelled, models.PaymentStatusFailed}, true},
		{OrderState{models.OrderStatusCancelled, models.PaymentStatusCancelled}, true},
	}
	for _, tc := range cases {
		if got := tc.st.Terminal(); got != tc.want {
			t.Fatalf("Terminal(%+v) = %v, want %v", tc.st, got, tc.want)
		}
	}
}
