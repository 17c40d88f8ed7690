package service

import (
	"context"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SelectionInput struct {
	AddressID      uuid.UUID
	DeliveryOption string
	PaymentMethod  string
}

type CheckoutService interface {
	SaveSelection(ctx context.Context, userID uuid.UUID, in SelectionInput) (*models.CheckoutSelection, error)
	GetSelection(ctx context.Context, userID uuid.UUID) (*models.CheckoutSelection, error)
	// Quote считает суммы по текущей корзине и сохраняет их в выборе checkout.
	Quote(ctx context.Context, userID uuid.UUID) (Totals, error)
	ClearSelection(ctx context.Context, userID uuid.UUID) error
}

type checkoutService struct {
	store Store
	log   *zap.Logger
}

func NewCheckoutService(store Store, log *zap.Logger) CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &checkoutService{store: store, log: log}
}

func (s *checkoutService) SaveSelection(ctx context.Context, userID uuid.UUID, in SelectionInput) (*models.CheckoutSelection, error) {
	opt, err := normalizeDeliveryOption(in.DeliveryOption)
	if err != nil {
		return nil, err
	}
	method, err := normalizePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	addr, err := repos.Addresses.GetByID(ctx, in.AddressID)
	if err != nil {
		return nil, err
	}
	if addr == nil || addr.UserID != userID {
		return nil, ErrAddressNotFound
	}

	sel := &models.CheckoutSelection{
		UserID:         userID,
		AddressID:      &addr.ID,
		DeliveryOption: opt,
		PaymentMethod:  method,
	}
	if err := repos.Selections.Upsert(ctx, sel); err != nil {
		return nil, err
	}

	saved, err := repos.Selections.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrNoCheckoutSelection
	}
	return saved, nil
}

func (s *checkoutService) GetSelection(ctx context.Context, userID uuid.UUID) (*models.CheckoutSelection, error) {
	sel, err := s.store.Repos().Selections.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return nil, ErrNoCheckoutSelection
	}
	return sel, nil
}

func (s *checkoutService) Quote(ctx context.Context, userID uuid.UUID) (Totals, error) {
	var totals Totals
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		totals, err = quoteTotals(ctx, tx, userID)
		return err
	})
	return totals, err
}

// quoteTotals требует выбор checkout и непустую корзину; суммы фиксируются в выборе.
func quoteTotals(ctx context.Context, tx *repository.Repository, userID uuid.UUID) (Totals, error) {
	sel, err := tx.Selections.GetByUser(ctx, userID)
	if err != nil {
		return Totals{}, err
	}
	if sel == nil {
		return Totals{}, ErrNoCheckoutSelection
	}

	lines, err := tx.Carts.ListByUser(ctx, userID)
	if err != nil {
		return Totals{}, err
	}
	if len(lines) == 0 {
		return Totals{}, ErrEmptyCart
	}

	t := ComputeTotals(lines, sel.DeliveryOption)
	ok, err := tx.Selections.UpdateTotals(ctx, userID, t.Subtotal, t.ShippingFee, t.Total)
	if err != nil {
		return Totals{}, err
	}
	if !ok {
		return Totals{}, ErrNoCheckoutSelection
	}
	return t, nil
}

func (s *checkoutService) ClearSelection(ctx context.Context, userID uuid.UUID) error {
	_, err := s.store.Repos().Selections.DeleteByUser(ctx, userID)
	return err
}
