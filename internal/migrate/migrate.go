package migrate

import (
	"context"

	"zoovio-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, uuid-ossp
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и частичные UNIQUE
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateStoreDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных магазина")

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Error("Не удалось включить расширение uuid-ossp", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц users, orders, order_items, payments, audit_logs")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.AuditLog{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггера updated_at")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_payments_updated ON payments;
CREATE TRIGGER trg_payments_updated
BEFORE UPDATE ON payments
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггеры updated_at", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Статусы заказа и оплаты (храним TEXT)
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','confirmed','processing','cancelled'));

ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_payment_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_payment_status_allowed
  CHECK (payment_status IN ('pending','processing','succeeded','failed','requires_action','cancelled'));

ALTER TABLE payments
  DROP CONSTRAINT IF EXISTS chk_payments_status_allowed;
ALTER TABLE payments
  ADD CONSTRAINT chk_payments_status_allowed
  CHECK (status IN ('pending','processing','succeeded','failed','requires_action','cancelled'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов", zap.Error(err))
			return err
		}

		// Валюта ровно 3 символа, суммы положительные
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_currency_len;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_currency_len
  CHECK (char_length(currency) = 3);

ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_total_positive;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_total_positive
  CHECK (total_amount > 0);

ALTER TABLE payments
  DROP CONSTRAINT IF EXISTS chk_payments_currency_len;
ALTER TABLE payments
  ADD CONSTRAINT chk_payments_currency_len
  CHECK (char_length(currency) = 3);

ALTER TABLE payments
  DROP CONSTRAINT IF EXISTS chk_payments_amount_positive;
ALTER TABLE payments
  ADD CONSTRAINT chk_payments_amount_positive
  CHECK (amount > 0);

ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);

ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_prices_positive;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_prices_positive
  CHECK (unit_price > 0 AND total_price > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для валют и сумм", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")

		// Уникальность email без учёта регистра
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_lower
ON users (lower(email));
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс по email", zap.Error(err))
			return err
		}

		// Одна checkout-сессия — один заказ
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_checkout_session
ON orders (checkout_session_id)
WHERE checkout_session_id IS NOT NULL;
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс orders.checkout_session_id", zap.Error(err))
			return err
		}

		// Не более одного платежа на checkout-сессию — точка синхронизации сверки
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_payments_checkout_session
ON payments (checkout_session_id)
WHERE checkout_session_id IS NOT NULL;
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс payments.checkout_session_id", zap.Error(err))
			return err
		}

		// Выборки: заказы и платежи пользователя по дате
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_user_created
ON orders (user_id, created_at DESC);

CREATE INDEX IF NOT EXISTS ix_payments_user_created
ON payments (user_id, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индексы по выборкам", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;

ALTER TABLE payments
  DROP CONSTRAINT IF EXISTS fk_payments_order,
  ADD CONSTRAINT fk_payments_order
    FOREIGN KEY (order_id) REFERENCES orders(id);
`).Error; err != nil {
			log.Error("Не удалось создать внешние ключи", zap.Error(err))
			return err
		}
	}

	log.Info("Миграция базы данных магазина успешно завершена")
	return nil
}
