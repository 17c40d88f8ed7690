package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore: in-memory реализация service.Store. WithTx откатывает всё состояние, если fn вернула ошибку.
type memStore struct {
	mu    sync.Mutex
	state *memState
	// failOn["orders.create"] и т.п.: принудительная ошибка репозитория
	failOn map[string]error
	txs    int
}

type memState struct {
	users      map[uuid.UUID]models.User
	addresses  map[uuid.UUID]models.Address
	products   map[uuid.UUID]models.Product
	cart       []models.CartItem
	selections map[uuid.UUID]models.CheckoutSelection
	orders     []models.Order
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			users:      map[uuid.UUID]models.User{},
			addresses:  map[uuid.UUID]models.Address{},
			products:   map[uuid.UUID]models.Product{},
			selections: map[uuid.UUID]models.CheckoutSelection{},
		},
		failOn: map[string]error{},
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		users:      make(map[uuid.UUID]models.User, len(s.users)),
		addresses:  make(map[uuid.UUID]models.Address, len(s.addresses)),
		products:   make(map[uuid.UUID]models.Product, len(s.products)),
		selections: make(map[uuid.UUID]models.CheckoutSelection, len(s.selections)),
		cart:       make([]models.CartItem, len(s.cart)),
		orders:     make([]models.Order, len(s.orders)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range s.selections {
		c.selections[k] = v
	}
	copy(c.cart, s.cart)
	for i, o := range s.orders {
		c.orders[i] = cloneOrder(o)
	}
	return c
}

func cloneProduct(p models.Product) models.Product {
	p.Variants = append([]models.ProductVariant(nil), p.Variants...)
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func (m *memStore) repos() *repository.Repository {
	return &repository.Repository{
		Users:      &memUsers{m},
		Addresses:  &memAddresses{m},
		Products:   &memProducts{m},
		Carts:      &memCarts{m},
		Selections: &memSelections{m},
		Orders:     &memOrders{m},
	}
}

func (m *memStore) Repos() *repository.Repository { return m.repos() }

func (m *memStore) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	m.mu.Lock()
	m.txs++
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(m.repos()); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) fail(op string) error {
	return m.failOn[op]
}

// --- fixtures ---

func (m *memStore) addUser(name string) models.User {
	u := models.User{ID: uuid.New(), Email: strings.ToLower(name) + "@example.com", Name: name}
	m.state.users[u.ID] = u
	return u
}

func (m *memStore) addAddress(userID uuid.UUID) models.Address {
	a := models.Address{
		ID: uuid.New(), UserID: userID, Name: "Asha", Phone: "9000000001",
		Street: "12 Temple Road", City: "Udupi", State: "Karnataka", Pincode: "576101",
		Landmark: "Near car street", AddressType: "home",
	}
	m.state.addresses[a.ID] = a
	return a
}

// addProduct создаёт товар; stocks задают остатки вариантов по порядку (первый: основной).
func (m *memStore) addProduct(name string, price float64, stocks ...int) models.Product {
	p := models.Product{ID: uuid.New(), Name: name, IsActive: true}
	for i, st := range stocks {
		pr := price
		p.Variants = append(p.Variants, models.ProductVariant{
			ID: uuid.New(), ProductID: p.ID, Position: i, Price: &pr,
			StockQuantity: st, InStock: st > 0, Color: []string{"Red", "Blue", "Green", "Gold"}[i%4],
		})
	}
	m.state.products[p.ID] = p
	return p
}

func (m *memStore) addCartLine(userID uuid.UUID, p models.Product, variantID *uuid.UUID, qty int, price *float64) models.CartItem {
	it := models.CartItem{
		ID: uuid.New(), UserID: userID, ProductID: p.ID, VariantID: variantID,
		Quantity: qty, PriceAtAdd: price, CreatedAt: time.Now().Add(time.Duration(len(m.state.cart)) * time.Millisecond),
	}
	if variantID != nil {
		if v := p.Variant(*variantID); v != nil {
			it.VariantName = v.Name()
			it.VariantColor = v.Color
		}
	}
	m.state.cart = append(m.state.cart, it)
	return it
}

func (m *memStore) setSelection(userID uuid.UUID, addressID *uuid.UUID, option, method string) {
	m.state.selections[userID] = models.CheckoutSelection{
		ID: uuid.New(), UserID: userID, AddressID: addressID, DeliveryOption: option, PaymentMethod: method,
	}
}

func (m *memStore) setTotals(userID uuid.UUID, subtotal, fee, total float64) {
	sel := m.state.selections[userID]
	sel.Subtotal, sel.ShippingFee, sel.Total = &subtotal, &fee, &total
	m.state.selections[userID] = sel
}

func (m *memStore) stock(productID uuid.UUID, idx int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[productID].Variants[idx].StockQuantity
}

func (m *memStore) cartLen(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.state.cart {
		if it.UserID == userID {
			n++
		}
	}
	return n
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

func (m *memStore) totalOrders(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.users[userID].TotalOrders
}

// --- repositories ---

type memUsers struct{ m *memStore }

func (r *memUsers) Create(ctx context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.m.state.users[u.ID] = *u
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.state.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.state.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) IncrementTotalOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := r.m.fail("users.increment"); err != nil {
		return false, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.state.users[id]
	if !ok {
		return false, nil
	}
	u.TotalOrders++
	r.m.state.users[id] = u
	return true, nil
}

type memAddresses struct{ m *memStore }

func (r *memAddresses) Create(ctx context.Context, a *models.Address) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.m.state.addresses[a.ID] = *a
	return nil
}

func (r *memAddresses) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.state.addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memAddresses) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Address
	for _, a := range r.m.state.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAddresses) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.state.addresses[id]
	delete(r.m.state.addresses, id)
	return ok, nil
}

type memProducts struct{ m *memStore }

func (r *memProducts) Create(ctx context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.m.state.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r *memProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.state.products[id]
	if !ok {
		return nil, nil
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *memProducts) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := r.m.state.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *memProducts) GetVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.state.products {
		if v := p.Variant(variantID); v != nil {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProducts) DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	if err := r.m.fail("products.decrement"); err != nil {
		return false, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, p := range r.m.state.products {
		for i := range p.Variants {
			v := &p.Variants[i]
			if v.ID != variantID {
				continue
			}
			if v.StockQuantity < qty {
				return false, nil
			}
			v.StockQuantity -= qty
			v.InStock = v.StockQuantity > 0
			r.m.state.products[id] = p
			return true, nil
		}
	}
	return false, nil
}

func (r *memProducts) SetVariantStock(ctx context.Context, variantID uuid.UUID, qty int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, p := range r.m.state.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				p.Variants[i].StockQuantity = qty
				p.Variants[i].InStock = qty > 0
				r.m.state.products[id] = p
				return nil
			}
		}
	}
	return nil
}

type memCarts struct{ m *memStore }

func (r *memCarts) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if err := r.m.fail("carts.list"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.CartItem
	for _, it := range r.m.state.cart {
		if it.UserID != userID {
			continue
		}
		it.Product = cloneProduct(r.m.state.products[it.ProductID])
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memCarts) FindExisting(ctx context.Context, userID, productID uuid.UUID, id models.CartIdentity) (*models.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, it := range r.m.state.cart {
		if it.UserID != userID || it.ProductID != productID {
			continue
		}
		var match bool
		switch {
		case id.VariantID != nil:
			match = it.VariantID != nil && *it.VariantID == *id.VariantID
		case strings.TrimSpace(id.VariantName) != "":
			match = it.VariantName == id.VariantName
		case strings.TrimSpace(id.VariantColor) != "":
			match = it.VariantColor == id.VariantColor
		default:
			match = it.VariantID == nil
		}
		if match {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCarts) Save(ctx context.Context, item *models.CartItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	saved := *item
	saved.Product = models.Product{}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
		saved.ID = item.ID
		saved.CreatedAt = time.Now()
		r.m.state.cart = append(r.m.state.cart, saved)
		return nil
	}
	for i := range r.m.state.cart {
		if r.m.state.cart[i].ID == item.ID {
			r.m.state.cart[i] = saved
			return nil
		}
	}
	r.m.state.cart = append(r.m.state.cart, saved)
	return nil
}

func (r *memCarts) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.state.cart {
		if r.m.state.cart[i].ID == id {
			r.m.state.cart = append(r.m.state.cart[:i], r.m.state.cart[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memCarts) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := r.m.fail("carts.clear"); err != nil {
		return 0, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	kept := r.m.state.cart[:0:0]
	var n int64
	for _, it := range r.m.state.cart {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	r.m.state.cart = kept
	return n, nil
}

type memSelections struct{ m *memStore }

func (r *memSelections) GetByUser(ctx context.Context, userID uuid.UUID) (*models.CheckoutSelection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.selections[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memSelections) Upsert(ctx context.Context, s *models.CheckoutSelection) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if prev, ok := r.m.state.selections[s.UserID]; ok {
		s.ID = prev.ID
	} else if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.m.state.selections[s.UserID] = *s
	return nil
}

func (r *memSelections) UpdateTotals(ctx context.Context, userID uuid.UUID, subtotal, shippingFee, total float64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.selections[userID]
	if !ok {
		return false, nil
	}
	s.Subtotal, s.ShippingFee, s.Total = &subtotal, &shippingFee, &total
	r.m.state.selections[userID] = s
	return true, nil
}

func (r *memSelections) ResetTotals(ctx context.Context, userID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.state.selections[userID]
	if !ok {
		return nil
	}
	s.Subtotal, s.ShippingFee, s.Total = nil, nil, nil
	r.m.state.selections[userID] = s
	return nil
}

func (r *memSelections) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.state.selections[userID]; !ok {
		return 0, nil
	}
	delete(r.m.state.selections, userID)
	return 1, nil
}

type memOrders struct{ m *memStore }

func (r *memOrders) Create(ctx context.Context, o *models.Order) error {
	if err := r.m.fail("orders.create"); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if o.RazorpayPaymentID != nil {
		for _, ex := range r.m.state.orders {
			if ex.RazorpayPaymentID != nil && *ex.RazorpayPaymentID == *o.RazorpayPaymentID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	now := time.Now()
	o.ID = uuid.New()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
		o.Items[i].CreatedAt = now
	}
	r.m.state.orders = append(r.m.state.orders, cloneOrder(*o))
	return nil
}

func (r *memOrders) find(pred func(o *models.Order) bool) *models.Order {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.state.orders {
		if pred(&r.m.state.orders[i]) {
			cp := cloneOrder(r.m.state.orders[i])
			return &cp
		}
	}
	return nil
}

func (r *memOrders) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.find(func(o *models.Order) bool { return o.ID == id }), nil
}

func (r *memOrders) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	return r.find(func(o *models.Order) bool { return o.ID == id && o.UserID == userID }), nil
}

func (r *memOrders) GetByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	return r.find(func(o *models.Order) bool {
		return o.RazorpayPaymentID != nil && *o.RazorpayPaymentID == paymentID
	}), nil
}

func (r *memOrders) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matched []*models.Order
	for i := len(r.m.state.orders) - 1; i >= 0; i-- {
		o := r.m.state.orders[i]
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		cp := cloneOrder(o)
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []*models.Order{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (r *memOrders) update(id uuid.UUID, fn func(o *models.Order)) bool {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.state.orders {
		if r.m.state.orders[i].ID == id {
			fn(&r.m.state.orders[i])
			r.m.state.orders[i].UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

func (r *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error) {
	return r.update(id, func(o *models.Order) { o.Status = status }), nil
}

func (r *memOrders) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (bool, error) {
	return r.update(id, func(o *models.Order) { o.PaymentStatus = &paymentStatus }), nil
}

func (r *memOrders) Stats(ctx context.Context) (repository.OrderStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var s repository.OrderStats
	for _, o := range r.m.state.orders {
		s.TotalOrders++
		s.TotalRevenue += o.Total
		switch o.Status {
		case models.OrderStatusCreated:
			s.CreatedOrders++
		case models.OrderStatusShipped:
			s.ShippedOrders++
		case models.OrderStatusDelivered:
			s.DeliveredOrders++
		}
		if o.PaymentStatus == nil || *o.PaymentStatus == models.PaymentStatusPending {
			s.PendingOrders++
		}
	}
	return s, nil
}
