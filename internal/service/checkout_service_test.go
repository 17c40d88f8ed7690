package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestShippingFee(t *testing.T) {
	cases := map[string]float64{
		"express":   100,
		"EXPRESS":   100,
		"eXpReSs":   100,
		"standard":  50,
		"":          50,
		"overnight": 50,
	}
	for opt, want := range cases {
		if got := service.ShippingFee(opt); got != want {
			t.Errorf("ShippingFee(%q) = %v, want %v", opt, got, want)
		}
	}
}

func TestToPaise(t *testing.T) {
	if got := service.ToPaise(550); got != 55000 {
		t.Errorf("ToPaise(550) = %d", got)
	}
	if got := service.ToPaise(199.99); got != 19999 {
		t.Errorf("ToPaise(199.99) = %d", got)
	}
	// 0.29 * 100 в float64 чуть меньше 29
	if got := service.ToPaise(0.29); got != 29 {
		t.Errorf("ToPaise(0.29) = %d", got)
	}
}

func TestSaveSelection(t *testing.T) {
	store := newMemStore()
	user := store.addUser("Asha")
	addr := store.addAddress(user.ID)
	svc := service.NewCheckoutService(store, zap.NewNop())
	ctx := context.Background()

	sel, err := svc.SaveSelection(ctx, user.ID, service.SelectionInput{AddressID: addr.ID, DeliveryOption: " Express ", PaymentMethod: "UPI"})
	if err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if sel.DeliveryOption != "express" || sel.PaymentMethod != "upi" {
		t.Errorf("not normalized: %+v", sel)
	}
	if sel.AddressID == nil || *sel.AddressID != addr.ID {
		t.Errorf("address = %v", sel.AddressID)
	}

	// пустая доставка по умолчанию standard
	sel, err = svc.SaveSelection(ctx, user.ID, service.SelectionInput{AddressID: addr.ID, PaymentMethod: "cod"})
	if err != nil || sel.DeliveryOption != "standard" {
		t.Fatalf("default delivery: %+v, %v", sel, err)
	}

	if _, err := svc.SaveSelection(ctx, user.ID, service.SelectionInput{AddressID: addr.ID, DeliveryOption: "drone", PaymentMethod: "cod"}); !errors.Is(err, service.ErrInvalidDeliveryOption) {
		t.Errorf("expected ErrInvalidDeliveryOption, got %v", err)
	}
	if _, err := svc.SaveSelection(ctx, user.ID, service.SelectionInput{AddressID: addr.ID, PaymentMethod: "barter"}); !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if _, err := svc.SaveSelection(ctx, user.ID, service.SelectionInput{AddressID: uuid.New(), PaymentMethod: "cod"}); !errors.Is(err, service.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
	other := store.addUser("Ravi")
	foreign := store.addAddress(other.ID)
	if _, err := svc.SaveSelection(ctx, user.ID, service.SelectionInput{AddressID: foreign.ID, PaymentMethod: "cod"}); !errors.Is(err, service.ErrAddressNotFound) {
		t.Errorf("foreign address accepted: %v", err)
	}
}

func TestQuoteAndClearSelection(t *testing.T) {
	store := newMemStore()
	user := store.addUser("Asha")
	addr := store.addAddress(user.ID)
	svc := service.NewCheckoutService(store, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Quote(ctx, user.ID); !errors.Is(err, service.ErrNoCheckoutSelection) {
		t.Fatalf("expected ErrNoCheckoutSelection, got %v", err)
	}
	store.setSelection(user.ID, &addr.ID, "express", "razorpay")
	if _, err := svc.Quote(ctx, user.ID); !errors.Is(err, service.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	p := store.addProduct("Silk Saree", 100, 10)
	store.addCartLine(user.ID, p, nil, 2, price(100))
	totals, err := svc.Quote(ctx, user.ID)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if totals.Subtotal != 200 || totals.ShippingFee != 100 || totals.Total != 300 {
		t.Fatalf("totals = %+v", totals)
	}
	sel, err := svc.GetSelection(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetSelection: %v", err)
	}
	if !sel.HasTotals() || *sel.Total != 300 {
		t.Errorf("totals not persisted: %+v", sel)
	}

	if err := svc.ClearSelection(ctx, user.ID); err != nil {
		t.Fatalf("ClearSelection: %v", err)
	}
	if _, err := svc.GetSelection(ctx, user.ID); !errors.Is(err, service.ErrNoCheckoutSelection) {
		t.Errorf("expected ErrNoCheckoutSelection after clear, got %v", err)
	}
}
