package repository

import (
	"context"
	"errors"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	GetVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error)

	// DecrementVariantStock атомарно: stock -= qty, если stock >= qty; in_stock пересчитывается.
	// false: остатка не хватило (или вариант не найден), ничего не изменено.
	DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error)
	// SetVariantStock: прямое выставление остатка (админка), не согласуется с заказами.
	SetVariantStock(ctx context.Context, variantID uuid.UUID, qty int) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC")
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*"): чтобы false/0 не подменялись дефолтами БД (is_active, in_stock)
		if err := tx.Select("*").Omit("Variants").Create(p).Error; err != nil {
			return err
		}
		if len(p.Variants) == 0 {
			return nil
		}
		for i := range p.Variants {
			v := &p.Variants[i]
			if v.ID == uuid.Nil {
				v.ID = uuid.New()
			}
			v.ProductID = p.ID
			v.Position = i
		}
		return tx.Select("*").Create(&p.Variants).Error
	})
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Variants", orderedVariants).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var list []models.Product
	err := r.db.WithContext(ctx).Preload("Variants", orderedVariants).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *productRepo) GetVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.db.WithContext(ctx).First(&v, "id = ?", variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *productRepo) DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	// в SET справа видны старые значения строки, поэтому in_stock считается от нового остатка
	tx := r.db.WithContext(ctx).Exec(`
UPDATE product_variants
SET stock_quantity = stock_quantity - @q,
    in_stock       = (stock_quantity - @q) > 0,
    updated_at     = now()
WHERE id = @vid
  AND stock_quantity >= @q
`, map[string]any{
		"vid": variantID,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) SetVariantStock(ctx context.Context, variantID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Updates(map[string]any{
			"stock_quantity": qty,
			"in_stock":       qty > 0,
		}).Error
}
