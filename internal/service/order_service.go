package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	flowCash   = "cash"
	flowOnline = "online"

	userOrdersLimit = 200
)

type orderService struct {
	store   Store
	events  EventBus
	metrics Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewOrderService(store Store, events EventBus, metrics Metrics, log *zap.Logger) OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &orderService{
		store:   store,
		events:  events,
		metrics: metricsOrNoop(metrics),
		log:     log,
		now:     time.Now,
	}
}

// reservation: сколько снять со склада конкретного варианта под одну строку корзины.
type reservation struct {
	variantID   uuid.UUID
	quantity    int
	productName string
	variantName string
}

// planReservations проверяет все строки до любых изменений.
// Строка без варианта резервирует первый (основной) вариант товара.
func planReservations(lines []models.CartItem) ([]reservation, error) {
	requested := make(map[uuid.UUID]int, len(lines))
	plan := make([]reservation, 0, len(lines))

	for i := range lines {
		line := &lines[i]
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, line.Product.Name)
		}

		var v *models.ProductVariant
		if line.VariantID != nil {
			v = line.Product.Variant(*line.VariantID)
			if v == nil {
				return nil, fmt.Errorf("%w: %s (product %s)", ErrVariantNotFound, line.VariantID, line.Product.Name)
			}
		} else {
			v = line.Product.PrimaryVariant()
		}

		variantName := line.VariantName
		if variantName == "" && line.VariantID != nil {
			variantName = v.Name()
		}

		available := 0
		if v != nil {
			available = v.StockQuantity - requested[v.ID]
		}
		if available < line.Quantity {
			return nil, &StockError{
				ProductName: line.Product.Name,
				VariantName: variantName,
				Available:   max(available, 0),
				Requested:   line.Quantity,
			}
		}

		requested[v.ID] += line.Quantity
		plan = append(plan, reservation{
			variantID:   v.ID,
			quantity:    line.Quantity,
			productName: line.Product.Name,
			variantName: variantName,
		})
	}
	return plan, nil
}

// reserve списывает остатки через CAS; ноль затронутых строк значит, что склад успели занять.
func reserve(ctx context.Context, tx *repository.Repository, plan []reservation) error {
	for _, r := range plan {
		ok, err := tx.Products.DecrementVariantStock(ctx, r.variantID, r.quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		available := 0
		if v, err := tx.Products.GetVariant(ctx, r.variantID); err == nil && v != nil {
			available = v.StockQuantity
		}
		return &StockError{
			ProductName: r.productName,
			VariantName: r.variantName,
			Available:   available,
			Requested:   r.quantity,
		}
	}
	return nil
}

func loadCheckout(ctx context.Context, tx *repository.Repository, userID uuid.UUID) (*models.CheckoutSelection, *models.Address, error) {
	sel, err := tx.Selections.GetByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if sel == nil {
		return nil, nil, ErrNoCheckoutSelection
	}
	if sel.AddressID == nil {
		return nil, nil, ErrAddressNotFound
	}
	addr, err := tx.Addresses.GetByID(ctx, *sel.AddressID)
	if err != nil {
		return nil, nil, err
	}
	if addr == nil || addr.UserID != userID {
		return nil, nil, ErrAddressNotFound
	}
	return sel, addr, nil
}

func orderItemsFrom(lines []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice(),
		})
	}
	return items
}

// commitOrder: общая часть обоих путей: резерв, заказ, очистка корзины, счётчик заказов.
func commitOrder(ctx context.Context, tx *repository.Repository, order *models.Order, plan []reservation, clearCart bool) error {
	if err := reserve(ctx, tx, plan); err != nil {
		return err
	}
	if err := tx.Orders.Create(ctx, order); err != nil {
		return err
	}
	if clearCart {
		if _, err := tx.Carts.DeleteAllByUser(ctx, order.UserID); err != nil {
			return err
		}
	}
	ok, err := tx.Users.IncrementTotalOrders(ctx, order.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		lines, err := tx.Carts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		plan, err := planReservations(lines)
		if err != nil {
			return err
		}

		sel, addr, err := loadCheckout(ctx, tx, userID)
		if err != nil {
			return err
		}

		totals := ComputeTotals(lines, sel.DeliveryOption)
		order = &models.Order{
			UserID:         userID,
			DeliveryOption: sel.DeliveryOption,
			PaymentMethod:  sel.PaymentMethod,
			Shipping:       models.SnapshotOf(addr),
			Subtotal:       totals.Subtotal,
			ShippingFee:    totals.ShippingFee,
			Total:          totals.Total,
			Status:         models.OrderStatusCreated,
			Items:          orderItemsFrom(lines),
		}
		return commitOrder(ctx, tx, order, plan, true)
	})
	if err != nil {
		s.reject(flowCash, userID, err)
		return nil, err
	}

	return s.afterPlaced(ctx, flowCash, order.ID)
}

func (s *orderService) PlaceOrderForOnlinePayment(ctx context.Context, userID uuid.UUID, ref PaymentRef) (*models.Order, error) {
	var (
		order  *models.Order
		replay bool
	)

	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		if ref.RazorpayPaymentID != "" {
			existing, err := tx.Orders.GetByPaymentID(ctx, ref.RazorpayPaymentID)
			if err != nil {
				return err
			}
			if existing != nil {
				if existing.UserID != userID {
					return ErrForbidden
				}
				order, replay = existing, true
				return nil
			}
		}

		sel, addr, err := loadCheckout(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !sel.HasTotals() {
			return ErrMissingTotals
		}

		// пустая корзина допустима: повторная попытка после уже списанной корзины
		lines, err := tx.Carts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		plan, err := planReservations(lines)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:         userID,
			DeliveryOption: sel.DeliveryOption,
			PaymentMethod:  sel.PaymentMethod,
			Shipping:       models.SnapshotOf(addr),
			Subtotal:       *sel.Subtotal,
			ShippingFee:    *sel.ShippingFee,
			Total:          *sel.Total,
			Status:         models.OrderStatusCreated,
			Items:          orderItemsFrom(lines),
		}
		if ref.RazorpayPaymentID != "" {
			paid := models.PaymentStatusPaid
			order.Status = models.OrderStatusPaid
			order.PaymentStatus = &paid
			order.RazorpayPaymentID = ptr(ref.RazorpayPaymentID)
			if ref.RazorpayOrderID != "" {
				order.RazorpayOrderID = ptr(ref.RazorpayOrderID)
			}
		}
		return commitOrder(ctx, tx, order, plan, len(lines) > 0)
	})

	// параллельная попытка с тем же платежом упёрлась в уникальный индекс
	if err != nil && ref.RazorpayPaymentID != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, gerr := s.store.Repos().Orders.GetByPaymentID(ctx, ref.RazorpayPaymentID)
		if gerr == nil && existing != nil && existing.UserID == userID {
			return existing, nil
		}
	}
	if err != nil {
		s.reject(flowOnline, userID, err)
		return nil, err
	}
	if replay {
		s.log.Info("payment already converted to order",
			zap.String("order_id", order.ID.String()),
			zap.String("razorpay_payment_id", ref.RazorpayPaymentID))
		return order, nil
	}

	return s.afterPlaced(ctx, flowOnline, order.ID)
}

// afterPlaced перечитывает заказ после коммита и публикует событие; ошибки публикации не влияют на результат.
func (s *orderService) afterPlaced(ctx context.Context, flow string, orderID uuid.UUID) (*models.Order, error) {
	repos := s.store.Repos()
	order, err := repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	s.metrics.OrderPlaced(flow, order.Total, len(order.Items))
	s.log.Info("order placed",
		zap.String("flow", flow),
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))

	if s.events != nil {
		ev := OrderCreatedEvent{
			OrderID:        order.ID,
			UserID:         order.UserID,
			Items:          make([]OrderItemEvent, 0, len(order.Items)),
			Subtotal:       order.Subtotal,
			ShippingFee:    order.ShippingFee,
			Total:          order.Total,
			DeliveryOption: order.DeliveryOption,
			PaymentMethod:  order.PaymentMethod,
			Status:         string(order.Status),
			CreatedAt:      order.CreatedAt,
		}
		if u, err := repos.Users.GetByID(ctx, order.UserID); err == nil && u != nil {
			ev.UserEmail, ev.UserName = u.Email, u.Name
		}
		for i := range order.Items {
			it := &order.Items[i]
			ev.Items = append(ev.Items, OrderItemEvent{
				ProductID:   it.ProductID,
				VariantID:   it.VariantID,
				VariantName: it.VariantName,
				Quantity:    it.Quantity,
				Price:       it.Price,
				LineTotal:   it.LineTotal(),
			})
		}
		if err := s.events.PublishOrderCreated(ctx, ev); err != nil {
			s.log.Warn("publish order created failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}
	return order, nil
}

func (s *orderService) reject(flow string, userID uuid.UUID, err error) {
	s.metrics.OrderRejected(flow, rejectReason(err))
	s.log.Info("order rejected",
		zap.String("flow", flow),
		zap.String("user_id", userID.String()),
		zap.Error(err))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrVariantNotFound):
		return "variant_not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrNoCheckoutSelection):
		return "no_checkout_selection"
	case errors.Is(err, ErrAddressNotFound):
		return "address_not_found"
	case errors.Is(err, ErrMissingTotals):
		return "missing_totals"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrInvalidStatus
	}

	repos := s.store.Repos()
	ok, err := repos.Orders.UpdateStatus(ctx, orderID, models.OrderStatus(status))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}

	order, err := repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, OrderStatusChangedEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			Status:    string(order.Status),
			ChangedAt: s.now().UTC(),
		}); err != nil {
			s.log.Warn("publish status changed failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}
	return order, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, paymentStatus string) (*models.Order, error) {
	paymentStatus = strings.TrimSpace(paymentStatus)
	if paymentStatus == "" {
		return nil, ErrInvalidStatus
	}

	repos := s.store.Repos()
	ok, err := repos.Orders.UpdatePaymentStatus(ctx, orderID, paymentStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ord, err := s.store.Repos().Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	ord, err := s.store.Repos().Orders.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID, status *models.OrderStatus) ([]models.Order, error) {
	orders, _, err := s.ListOrders(ctx, ListFilter{UserID: &userID, Status: status, Limit: userOrdersLimit})
	return orders, err
}

func (s *orderService) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	ordersPtr, total, err := s.store.Repos().Orders.List(ctx, repository.OrderListFilter{
		UserID: f.UserID,
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

func (s *orderService) Statistics(ctx context.Context) (repository.OrderStats, error) {
	return s.store.Repos().Orders.Stats(ctx)
}

func ptr[T any](v T) *T { return &v }
