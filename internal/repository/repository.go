package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB         *gorm.DB
	Users      UserRepo
	Addresses  AddressRepo
	Products   ProductRepo
	Carts      CartRepo
	Selections CheckoutSelectionRepo
	Orders     OrderRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		Addresses:  NewAddressRepo(db),
		Products:   NewProductRepo(db),
		Carts:      NewCartRepo(db),
		Selections: NewCheckoutSelectionRepo(db),
		Orders:     NewOrderRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

func (r *Repository) Repos() *Repository { return r }

// WithTx выполняет fn в одной транзакции на весь набор репозиториев.
// Любая ошибка из fn откатывает транзакцию целиком.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
