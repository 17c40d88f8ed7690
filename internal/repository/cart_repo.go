package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindExisting(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity) (*models.CartItem, error)
	Save(ctx context.Context, item *models.CartItem) error
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Variants", orderedVariants).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *cartRepo) FindExisting(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity) (*models.CartItem, error) {
	q := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)

	switch {
	case id.VariantID != nil:
		q = q.Where("variant_id = ?", *id.VariantID)
	case strings.TrimSpace(id.VariantName) != "":
		q = q.Where("variant_name = ?", id.VariantName)
	case strings.TrimSpace(id.VariantColor) != "":
		q = q.Where("variant_color = ?", id.VariantColor)
	default:
		q = q.Where("variant_id IS NULL")
	}

	var item models.CartItem
	err := q.Order("created_at ASC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartRepo) Save(ctx context.Context, item *models.CartItem) error {
	// Omit Product: товар только читается, корзина его не сохраняет
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

func (r *cartRepo) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}
