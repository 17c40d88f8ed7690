package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

const CurrencyINR = "INR"

var ErrSignatureMismatch = errors.New("razorpay signature mismatch")

// RemoteOrder: заказ на стороне платёжного шлюза.
type RemoteOrder struct {
	ID       string
	Amount   int64 // в пайсах
	Currency string
	Receipt  string
	Status   string
}

type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*RemoteOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// orderCreator: часть клиента razorpay-go, которой мы пользуемся.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	keyID     string
	keySecret string
	orders    orderCreator
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{keyID: keyID, keySecret: keySecret, orders: client.Order}
}

func (r *Razorpay) KeyID() string { return r.keyID }

// CreateOrder вызывает Orders API. razorpay-go не принимает context, поэтому ctx проверяется только до вызова.
func (r *Razorpay) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*RemoteOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amountPaise <= 0 {
		return nil, fmt.Errorf("razorpay: amount must be positive, got %d", amountPaise)
	}
	if currency == "" {
		currency = CurrencyINR
	}

	body, err := r.orders.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay: response has no order id")
	}
	out := &RemoteOrder{ID: id, Amount: amountPaise, Currency: currency, Receipt: receipt}
	if s, ok := body["status"].(string); ok {
		out.Status = s
	}
	// JSON-числа приходят как float64
	if a, ok := body["amount"].(float64); ok {
		out.Amount = int64(a)
	}
	if c, ok := body["currency"].(string); ok && c != "" {
		out.Currency = c
	}
	return out, nil
}

// VerifySignature проверяет HMAC-SHA256(order_id|payment_id) секретом ключа.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrSignatureMismatch
	}
	ok := utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, r.keySecret)
	if !ok {
		return ErrSignatureMismatch
	}
	return nil
}
