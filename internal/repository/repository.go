package repository

import "gorm.io/gorm"

type Repository struct {
	DB         *gorm.DB
	Users      UserRepo
	Orders     OrderRepo
	OrderItems OrderItemRepo
	Payments   PaymentRepo
	Audit      AuditRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
		Payments:   NewPaymentRepo(db),
		Audit:      NewAuditRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }
