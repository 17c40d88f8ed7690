package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/pkg/testutil"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"go.uber.org/zap"
)

// seedBuyer заводит пользователя с адресом, выбором checkout и одной строкой корзины.
func seedBuyer(t *testing.T, repo *repository.Repository, n int, p *models.Product, qty int) models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Email: fmt.Sprintf("buyer%d@example.com", n), Name: "Buyer"}
	if err := repo.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	addr := &models.Address{UserID: u.ID, Name: "Buyer", Phone: "9000000000", Street: "Car Street", City: "Udupi", State: "Karnataka", Pincode: "576101"}
	if err := repo.Addresses.Create(ctx, addr); err != nil {
		t.Fatalf("create address: %v", err)
	}
	if err := repo.Selections.Upsert(ctx, &models.CheckoutSelection{UserID: u.ID, AddressID: &addr.ID, DeliveryOption: "standard", PaymentMethod: "cod"}); err != nil {
		t.Fatalf("upsert selection: %v", err)
	}
	vid := p.Variants[0].ID
	priceAtAdd := *p.Variants[0].Price
	if err := repo.Carts.Save(ctx, &models.CartItem{UserID: u.ID, ProductID: p.ID, VariantID: &vid, Quantity: qty, PriceAtAdd: &priceAtAdd}); err != nil {
		t.Fatalf("save cart line: %v", err)
	}
	return *u
}

func TestPlaceOrder_Postgres_ConcurrentLastUnit(t *testing.T) {
	db := testutil.SetupShopDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	price := 500.0
	p := &models.Product{Name: "Silk Saree", IsActive: true, Variants: []models.ProductVariant{{Price: &price, StockQuantity: 1, InStock: true, Color: "Red"}}}
	if err := repo.Products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	buyers := []models.User{seedBuyer(t, repo, 1, p, 1), seedBuyer(t, repo, 2, p, 1)}

	svc := service.NewOrderService(repo, nil, nil, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, len(buyers))
	start := make(chan struct{})
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, u models.User) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.PlaceOrder(ctx, u.ID)
		}(i, b)
	}
	close(start)
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("ok=%d rejected=%d, want exactly one winner", ok, rejected)
	}

	v, err := repo.Products.GetVariant(ctx, p.Variants[0].ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if v.StockQuantity != 0 || v.InStock {
		t.Fatalf("stock=%d in_stock=%v, want 0/false", v.StockQuantity, v.InStock)
	}

	stats, err := repo.Orders.Stats(ctx)
	if err != nil || stats.TotalOrders != 1 {
		t.Fatalf("orders persisted = %d (%v), want 1", stats.TotalOrders, err)
	}
	// проигравший сохраняет корзину
	remaining := 0
	for _, b := range buyers {
		lines, _ := repo.Carts.ListByUser(ctx, b.ID)
		remaining += len(lines)
	}
	if remaining != 1 {
		t.Fatalf("cart lines left = %d, want 1", remaining)
	}
}

func TestPlaceOrderForOnlinePayment_Postgres_Idempotent(t *testing.T) {
	db := testutil.SetupShopDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	price := 250.0
	p := &models.Product{Name: "Ghee", IsActive: true, Variants: []models.ProductVariant{{Price: &price, StockQuantity: 4, InStock: true}}}
	if err := repo.Products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	buyer := seedBuyer(t, repo, 1, p, 2)
	if ok, err := repo.Selections.UpdateTotals(ctx, buyer.ID, 500, 50, 550); err != nil || !ok {
		t.Fatalf("UpdateTotals: %v %v", ok, err)
	}

	svc := service.NewOrderService(repo, nil, nil, zap.NewNop())
	ref := service.PaymentRef{RazorpayOrderID: "order_pg", RazorpayPaymentID: "pay_pg"}

	first, err := svc.PlaceOrderForOnlinePayment(ctx, buyer.ID, ref)
	if err != nil {
		t.Fatalf("first placement: %v", err)
	}
	if first.Status != models.OrderStatusPaid || first.Total != 550 || len(first.Items) != 1 {
		t.Fatalf("order = %+v", first)
	}
	second, err := svc.PlaceOrderForOnlinePayment(ctx, buyer.ID, ref)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("retry created a second order")
	}

	v, _ := repo.Products.GetVariant(ctx, p.Variants[0].ID)
	if v.StockQuantity != 2 {
		t.Fatalf("stock = %d, want 2", v.StockQuantity)
	}
	u, _ := repo.Users.GetByID(ctx, buyer.ID)
	if u.TotalOrders != 1 {
		t.Fatalf("total_orders = %d, want 1", u.TotalOrders)
	}
}
