package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы заказа — строковые типы (как в auth/order сервисах)
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusProcessing     PaymentStatus = "processing"
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusCancelled      PaymentStatus = "cancelled"
)

type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"not null"` // уникальность — функциональный индекс lower(email)
	Password  string    `gorm:"not null"` // bcrypt hash
	Name      string    `gorm:"type:text;not null;default:''"`
	Role      Role      `gorm:"type:text;not null;default:'ROLE_CUSTOMER';index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

// Order — одна попытка оформления корзины.
// CheckoutSessionID ставится не более одного раза (частичный UNIQUE + условный UPDATE).
type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber       string          `gorm:"type:text;not null;uniqueIndex"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency          string          `gorm:"type:char(3);not null"`
	CheckoutSessionID *string         `gorm:"type:text"`
	Status            OrderStatus     `gorm:"type:text;not null;default:'pending';index"`
	PaymentStatus     PaymentStatus   `gorm:"type:text;not null;default:'pending';index"`
	ShippingAddress   *string         `gorm:"type:jsonb"`
	BillingAddress    *string         `gorm:"type:jsonb"`
	Notes             *string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // каскад на позиции
}

func (Order) TableName() string { return "orders" }

// OrderItem — неизменяемый снимок позиции корзины на момент создания заказа.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PetID       string          `gorm:"type:text;not null"`
	PetName     string          `gorm:"type:text;not null"`
	PetCategory string          `gorm:"type:text;not null;default:''"`
	PetBreed    string          `gorm:"type:text;not null;default:''"`
	Quantity    uint32          `gorm:"type:int;not null"` // CHECK quantity > 0 в миграции
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

// Payment — зафиксированный исход оплаты. Не более одной записи на checkout-сессию
// (частичный UNIQUE по checkout_session_id — точка синхронизации при гонках).
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           *uuid.UUID      `gorm:"type:uuid;index"` // nil для прямых платежей вне заказа
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CheckoutSessionID *string         `gorm:"type:text"`
	PaymentIntentID   *string         `gorm:"type:text;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency          string          `gorm:"type:char(3);not null"`
	PaymentMethodType string          `gorm:"type:text;not null;default:'card'"`
	CardBrand         *string         `gorm:"type:text"`
	CardLastFour      *string         `gorm:"type:text"`
	BillingEmail      *string         `gorm:"type:text"`
	Status            PaymentStatus   `gorm:"type:text;not null;default:'pending';index"`
	FailureReason     *string         `gorm:"type:text"`
	ProcessedAt       *time.Time      // только при терминальном исходе

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Payment) TableName() string { return "payments" }

// AuditLog — append-only журнал действий. Ядро его только пишет.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"type:text;not null;index"`
	EntityType string     `gorm:"type:text;not null"`
	EntityID   string     `gorm:"type:text;not null;index"`
	OldValues  *string    `gorm:"type:jsonb"`
	NewValues  *string    `gorm:"type:jsonb"`
	IPAddress  *string    `gorm:"type:text"`
	UserAgent  *string    `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"not null;default:now();index"`
}

func (AuditLog) TableName() string { return "audit_logs" }
