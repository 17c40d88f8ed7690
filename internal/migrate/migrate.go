package migrate

import (
	"context"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
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

type step struct {
	name string
	sql  string
}

var updatedAtTables = []string{"users", "addresses", "products", "product_variants", "cart_items", "checkout_selections", "orders"}

var checkSteps = []step{
	{"product_variants.stock_quantity >= 0", `
ALTER TABLE product_variants DROP CONSTRAINT IF EXISTS chk_product_variants_stock_non_negative;
ALTER TABLE product_variants ADD CONSTRAINT chk_product_variants_stock_non_negative CHECK (stock_quantity >= 0);`},
	{"product_variants prices >= 0", `
ALTER TABLE product_variants DROP CONSTRAINT IF EXISTS chk_product_variants_prices_non_negative;
ALTER TABLE product_variants ADD CONSTRAINT chk_product_variants_prices_non_negative
  CHECK ((price IS NULL OR price >= 0) AND (original_price IS NULL OR original_price >= 0));`},
	{"cart_items.quantity >= 1", `
ALTER TABLE cart_items DROP CONSTRAINT IF EXISTS chk_cart_items_quantity_positive;
ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_quantity_positive CHECK (quantity >= 1);`},
	{"cart_items.price_at_add >= 0", `
ALTER TABLE cart_items DROP CONSTRAINT IF EXISTS chk_cart_items_price_non_negative;
ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_price_non_negative CHECK (price_at_add IS NULL OR price_at_add >= 0);`},
	{"checkout_selections.delivery_option", `
ALTER TABLE checkout_selections DROP CONSTRAINT IF EXISTS chk_checkout_selections_delivery_option;
ALTER TABLE checkout_selections ADD CONSTRAINT chk_checkout_selections_delivery_option
  CHECK (delivery_option IN ('standard','express'));`},
	{"order_items.quantity > 0", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity_gt_zero CHECK (quantity > 0);`},
	{"orders totals >= 0", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_totals_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_totals_non_negative
  CHECK (subtotal >= 0 AND shipping_fee >= 0 AND total >= 0);`},
}

var indexSteps = []step{
	{"ux_orders_razorpay_payment_id", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_razorpay_payment_id
ON orders (razorpay_payment_id) WHERE razorpay_payment_id IS NOT NULL;`},
	{"ix_orders_user_created", `
CREATE INDEX IF NOT EXISTS ix_orders_user_created ON orders (user_id, created_at DESC);`},
	{"ix_orders_status_created", `
CREATE INDEX IF NOT EXISTS ix_orders_status_created ON orders (status, created_at DESC);`},
	{"ix_cart_items_user_product", `
CREATE INDEX IF NOT EXISTS ix_cart_items_user_product ON cart_items (user_id, product_id);`},
	{"ix_product_variants_product_position", `
CREATE INDEX IF NOT EXISTS ix_product_variants_product_position ON product_variants (product_id, position);`},
}

var fkSteps = []step{
	{"order_items.order_id -> orders.id", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;`},
	{"order_items.product_id -> products.id", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;`},
	{"orders.user_id -> users.id", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT;`},
	{"cart_items.user_id -> users.id", `
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_user,
  ADD CONSTRAINT fk_cart_items_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;`},
	{"addresses.user_id -> users.id", `
ALTER TABLE addresses
  DROP CONSTRAINT IF EXISTS fk_addresses_user,
  ADD CONSTRAINT fk_addresses_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;`},
	{"checkout_selections.user_id -> users.id", `
ALTER TABLE checkout_selections
  DROP CONSTRAINT IF EXISTS fk_checkout_selections_user,
  ADD CONSTRAINT fk_checkout_selections_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;`},
}

func runSteps(db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Error("Не удалось выполнить шаг миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateShopDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных магазина")
	db = db.WithContext(ctx)

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
	}

	// Таблицы
	log.Info("Создание таблиц")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartItem{},
		&models.CheckoutSelection{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;`).Error; err != nil {
			log.Error("Не удалось создать функцию set_updated_at", zap.Error(err))
			return err
		}
		for _, table := range updatedAtTables {
			if err := db.Exec(`DROP TRIGGER IF EXISTS trg_` + table + `_updated ON ` + table + `;
CREATE TRIGGER trg_` + table + `_updated BEFORE UPDATE ON ` + table + `
FOR EACH ROW EXECUTE FUNCTION set_updated_at();`).Error; err != nil {
				log.Error("Не удалось создать триггер updated_at", zap.String("table", table), zap.Error(err))
				return err
			}
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := runSteps(db, log, checkSteps); err != nil {
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		if err := runSteps(db, log, indexSteps); err != nil {
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")
		if err := runSteps(db, log, fkSteps); err != nil {
			return err
		}
	}

	log.Info("Миграция базы данных магазина успешно завершена")
	return nil
}
