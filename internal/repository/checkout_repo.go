package repository

import (
	"context"
	"errors"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutSelectionRepo interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.CheckoutSelection, error)
	// Upsert: одна активная выборка на пользователя (UNIQUE user_id)
	Upsert(ctx context.Context, s *models.CheckoutSelection) error
	UpdateTotals(ctx context.Context, userID uuid.UUID, subtotal, shippingFee, total float64) (bool, error)
	// ResetTotals обнуляет посчитанные суммы; вызывается при любом изменении корзины.
	ResetTotals(ctx context.Context, userID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type checkoutSelectionRepo struct{ db *gorm.DB }

func NewCheckoutSelectionRepo(db *gorm.DB) CheckoutSelectionRepo {
	return &checkoutSelectionRepo{db: db}
}

func (r *checkoutSelectionRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.CheckoutSelection, error) {
	var s models.CheckoutSelection
	err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *checkoutSelectionRepo) Upsert(ctx context.Context, s *models.CheckoutSelection) error {
	// новый выбор адреса/доставки сбрасывает посчитанные ранее суммы
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"address_id":      s.AddressID,
				"delivery_option": s.DeliveryOption,
				"payment_method":  s.PaymentMethod,
				"subtotal":        s.Subtotal,
				"shipping_fee":    s.ShippingFee,
				"total":           s.Total,
				"updated_at":      gorm.Expr("now()"),
			}),
		}).
		Create(s).Error
}

func (r *checkoutSelectionRepo) UpdateTotals(ctx context.Context, userID uuid.UUID, subtotal, shippingFee, total float64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.CheckoutSelection{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"subtotal":     subtotal,
			"shipping_fee": shippingFee,
			"total":        total,
			"updated_at":   gorm.Expr("now()"),
		})
	return tx.RowsAffected > 0, tx.Error
}

func (r *checkoutSelectionRepo) ResetTotals(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.CheckoutSelection{}).
		Where("user_id = ? AND (subtotal IS NOT NULL OR shipping_fee IS NOT NULL OR total IS NOT NULL)", userID).
		Updates(map[string]any{
			"subtotal":     gorm.Expr("NULL"),
			"shipping_fee": gorm.Expr("NULL"),
			"total":        gorm.Expr("NULL"),
			"updated_at":   gorm.Expr("now()"),
		}).Error
}

func (r *checkoutSelectionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CheckoutSelection{})
	return tx.RowsAffected, tx.Error
}
