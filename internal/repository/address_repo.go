package repository

import (
	"context"
	"errors"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepo interface {
	Create(ctx context.Context, a *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type addressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) AddressRepo { return &addressRepo{db: db} }

func (r *addressRepo) Create(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var a models.Address
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *addressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var list []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *addressRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}
