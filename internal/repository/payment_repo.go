package repository

import (
	"context"
	"errors"
	"time"

	"zoovio-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentHistoryRow — платёж пользователя вместе со сводкой заказа.
type PaymentHistoryRow struct {
	ID           uuid.UUID          `json:"id"`
	Amount       decimal.Decimal    `json:"amount"`
	Currency     string             `json:"currency"`
	Status       string             `json:"status"`
	CardBrand    *string            `json:"card_brand"`
	CardLastFour *string            `json:"card_last_four"`
	ProcessedAt  *time.Time         `json:"processed_at"`
	CreatedAt    time.Time          `json:"created_at"`
	OrderNumber  *string            `json:"order_number"`
	OrderStatus  *string            `json:"order_status"`
}

type PaymentRepo interface {
	// CreateIfAbsent вставляет платёж, если по этой checkout-сессии его ещё нет.
	// Проигрыш гонки (запись уже есть) — не ошибка, created=false.
	CreateIfAbsent(ctx context.Context, p *models.Payment) (created bool, err error)
	GetBySession(ctx context.Context, sessionID string) (*models.Payment, error)
	GetByIntent(ctx context.Context, intentID string) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	MarkOutcomeByIntent(ctx context.Context, intentID string, status models.PaymentStatus, failureReason *string, at time.Time) (bool, error)
	HistoryByUser(ctx context.Context, userID uuid.UUID) ([]PaymentHistoryRow, error)
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) PaymentRepo { return &paymentRepo{db: db} }

func (r *paymentRepo) CreateIfAbsent(ctx context.Context, p *models.Payment) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "checkout_session_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "checkout_session_id IS NOT NULL"}}},
		DoNothing:   true,
	}).Create(p)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *paymentRepo) GetBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, "checkout_session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *paymentRepo) GetByIntent(ctx context.Context, intentID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, "payment_intent_id = ?", intentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *paymentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

// MarkOutcomeByIntent переводит платёж в терминальный статус по intent-ссылке.
// Уже терминальный платёж не трогаем (повторная доставка события — no-op).
func (r *paymentRepo) MarkOutcomeByIntent(ctx context.Context, intentID string, status models.PaymentStatus, failureReason *string, at time.Time) (bool, error) {
	upd := map[string]any{
		"status":       status,
		"processed_at": at,
	}
	if failureReason != nil {
		upd["failure_reason"] = failureReason
	}
	tx := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payment_intent_id = ? AND status NOT IN ('succeeded','failed')", intentID).
		Updates(upd)
	return tx.RowsAffected > 0, tx.Error
}

func (r *paymentRepo) HistoryByUser(ctx context.Context, userID uuid.UUID) ([]PaymentHistoryRow, error) {
	var rows []PaymentHistoryRow
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select(`payments.id, payments.amount, payments.currency, payments.status,
			payments.card_brand, payments.card_last_four, payments.processed_at, payments.created_at,
			orders.order_number AS order_number, orders.status AS order_status`).
		Joins("LEFT JOIN orders ON orders.id = payments.order_id").
		Where("payments.user_id = ?", userID).
		Order("payments.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
