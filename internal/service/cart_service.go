package service

import (
	"context"
	"fmt"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddToCartInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	// явная цена от клиента; nil: берём цену варианта
	Price *float64

	VariantName  string
	VariantImage string
	VariantColor string
	WeightValue  *float64
	WeightUnit   string
}

func (in AddToCartInput) identity() models.CartIdentity {
	return models.CartIdentity{VariantID: in.VariantID, VariantName: in.VariantName, VariantColor: in.VariantColor}
}

type Cart struct {
	Items     []models.CartItem
	ItemCount int
	Subtotal  float64
}

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddToCart(ctx context.Context, userID uuid.UUID, in AddToCartInput) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	store   Store
	metrics Metrics
	log     *zap.Logger
}

func NewCartService(store Store, metrics Metrics, log *zap.Logger) CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &cartService{store: store, metrics: metricsOrNoop(metrics), log: log}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.store.Repos().Carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := &Cart{Items: lines}
	for i := range lines {
		cart.ItemCount += lines[i].Quantity
		cart.Subtotal += lines[i].LineTotal()
	}
	return cart, nil
}

// resolveVariant возвращает вариант, чей остаток ограничивает строку корзины.
func resolveVariant(p *models.Product, variantID *uuid.UUID) (*models.ProductVariant, error) {
	if variantID == nil {
		return p.PrimaryVariant(), nil
	}
	v := p.Variant(*variantID)
	if v == nil {
		return nil, fmt.Errorf("%w: %s (product %s)", ErrVariantNotFound, variantID, p.Name)
	}
	return v, nil
}

func loadActiveProduct(ctx context.Context, tx *repository.Repository, id uuid.UUID) (*models.Product, error) {
	p, err := tx.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *cartService) AddToCart(ctx context.Context, userID uuid.UUID, in AddToCartInput) (*models.CartItem, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var item *models.CartItem
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := loadActiveProduct(ctx, tx, in.ProductID)
		if err != nil {
			return err
		}
		v, err := resolveVariant(p, in.VariantID)
		if err != nil {
			return err
		}

		stock := 0
		if v != nil {
			stock = v.StockQuantity
		}
		if stock <= 0 {
			return ErrOutOfStock
		}

		existing, err := tx.Carts.FindExisting(ctx, userID, p.ID, in.identity())
		if err != nil {
			return err
		}
		merge := existing != nil
		if !merge {
			existing = &models.CartItem{UserID: userID, ProductID: p.ID, VariantID: in.VariantID}
		}

		wanted := existing.Quantity + in.Quantity
		if wanted > stock {
			name := in.VariantName
			if name == "" && in.VariantID != nil {
				name = v.Name()
			}
			return &StockError{ProductName: p.Name, VariantName: name, Available: stock, Requested: wanted}
		}

		existing.Quantity = wanted
		// при слиянии цена строки меняется только явной ценой из запроса
		if !merge || in.Price != nil || existing.PriceAtAdd == nil {
			existing.PriceAtAdd = ptr(unitPrice(in.Price, v))
		}
		fillVariantMeta(existing, in, v)

		if err := tx.Carts.Save(ctx, existing); err != nil {
			return err
		}
		if err := tx.Selections.ResetTotals(ctx, userID); err != nil {
			return err
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CartUpdated("add")
	s.log.Debug("cart item saved",
		zap.String("user_id", userID.String()),
		zap.String("product_id", in.ProductID.String()),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// unitPrice: явная цена, затем цена варианта (для строки без варианта это основной вариант), иначе 0.
func unitPrice(explicit *float64, v *models.ProductVariant) float64 {
	if explicit != nil {
		return *explicit
	}
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return 0
}

// fillVariantMeta переносит только непустые поля запроса; пустые поля варианта-строки
// дополняются из самого варианта.
func fillVariantMeta(item *models.CartItem, in AddToCartInput, v *models.ProductVariant) {
	if in.VariantName != "" {
		item.VariantName = in.VariantName
	}
	if in.VariantImage != "" {
		item.VariantImage = in.VariantImage
	}
	if in.VariantColor != "" {
		item.VariantColor = in.VariantColor
	}
	if in.WeightValue != nil {
		item.WeightValue = in.WeightValue
	}
	if in.WeightUnit != "" {
		item.WeightUnit = in.WeightUnit
	}

	if item.VariantID == nil || v == nil {
		return
	}
	if item.VariantName == "" {
		item.VariantName = v.Name()
	}
	if item.VariantImage == "" {
		item.VariantImage = v.MainImage
	}
	if item.VariantColor == "" {
		item.VariantColor = v.Color
	}
	if item.WeightValue == nil {
		item.WeightValue = v.WeightValue
	}
	if item.WeightUnit == "" {
		item.WeightUnit = v.WeightUnit
	}
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var item *models.CartItem
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Carts.FindExisting(ctx, userID, productID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrCartItemNotFound
		}

		p, err := loadActiveProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		v, err := resolveVariant(p, existing.VariantID)
		if err != nil {
			return err
		}
		stock := 0
		if v != nil {
			stock = v.StockQuantity
		}
		if quantity > stock {
			return &StockError{ProductName: p.Name, VariantName: existing.VariantName, Available: stock, Requested: quantity}
		}

		existing.Quantity = quantity
		if err := tx.Carts.Save(ctx, existing); err != nil {
			return err
		}
		if err := tx.Selections.ResetTotals(ctx, userID); err != nil {
			return err
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CartUpdated("update")
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity) error {
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Carts.FindExisting(ctx, userID, productID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrCartItemNotFound
		}
		if _, err := tx.Carts.DeleteByID(ctx, existing.ID); err != nil {
			return err
		}
		return tx.Selections.ResetTotals(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.metrics.CartUpdated("remove")
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	var n int64
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if n, err = tx.Carts.DeleteAllByUser(ctx, userID); err != nil {
			return err
		}
		return tx.Selections.ResetTotals(ctx, userID)
	})
	if err != nil {
		return err
	}
	s.metrics.CartUpdated("clear")
	s.log.Debug("cart cleared", zap.String("user_id", userID.String()), zap.Int64("removed", n))
	return nil
}
