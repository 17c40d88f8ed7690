package repository

import (
	"context"
	"errors"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderStats struct {
	TotalOrders     int64
	CreatedOrders   int64
	ShippedOrders   int64
	DeliveredOrders int64
	// заказы без подтверждённой оплаты (payment_status пуст или pending)
	PendingOrders int64
	TotalRevenue  float64
}

type OrderRepo interface {
	// Create сохраняет заказ вместе с позициями (каскад через ассоциацию Items)
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	GetByPaymentID(ctx context.Context, razorpayPaymentID string) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (bool, error)
	Stats(ctx context.Context) (OrderStats, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func itemsByCreation(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items", itemsByCreation).First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items", itemsByCreation).First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByPaymentID(ctx context.Context, razorpayPaymentID string) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items", itemsByCreation).First(&ord, "razorpay_payment_id = ?", razorpayPaymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Items", itemsByCreation).Find(&list).Error
	return list, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"updated_at": gorm.Expr("now()"),
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"payment_status": paymentStatus,
		"updated_at":     gorm.Expr("now()"),
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepo) Stats(ctx context.Context) (OrderStats, error) {
	var s OrderStats
	err := r.db.WithContext(ctx).Model(&models.Order{}).Select(`
COUNT(*) AS total_orders,
COUNT(*) FILTER (WHERE status = ?) AS created_orders,
COUNT(*) FILTER (WHERE status = ?) AS shipped_orders,
COUNT(*) FILTER (WHERE status = ?) AS delivered_orders,
COUNT(*) FILTER (WHERE payment_status IS NULL OR payment_status = ?) AS pending_orders,
COALESCE(SUM(total), 0)            AS total_revenue`,
		string(models.OrderStatusCreated), string(models.OrderStatusShipped), string(models.OrderStatusDelivered),
		models.PaymentStatusPending,
	).Scan(&s).Error
	return s, err
}
