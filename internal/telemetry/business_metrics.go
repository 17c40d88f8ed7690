package telemetry

import (
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

// BusinessMetrics holds Prometheus metrics for the order funnel.
type BusinessMetrics struct {
	OrdersCreated  *prometheus.CounterVec
	OrdersRejected *prometheus.CounterVec
	OrderValue     *prometheus.HistogramVec
	OrderItemCount *prometheus.HistogramVec

	CartUpdates *prometheus.CounterVec

	PaymentVerifications *prometheus.CounterVec
}

var _ service.Metrics = (*BusinessMetrics)(nil)

// NewBusinessMetrics registers collectors on reg; pass prometheus.DefaultRegisterer in production.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	f := promauto.With(reg)
	return &BusinessMetrics{
		OrdersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders placed, by placement flow",
		}, []string{"flow"}),
		OrdersRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Order placements rolled back, by flow and reason",
		}, []string{"flow", "reason"}),
		OrderValue: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value",
			Help:      "Order total in rupees",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}, []string{"flow"}),
		OrderItemCount: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_item_count",
			Help:      "Number of lines per order",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}, []string{"flow"}),
		CartUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_updates_total",
			Help:      "Cart mutations by action",
		}, []string{"action"}),
		PaymentVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Gateway signature checks by result",
		}, []string{"result"}),
	}
}

func (m *BusinessMetrics) OrderPlaced(flow string, total float64, items int) {
	m.OrdersCreated.WithLabelValues(flow).Inc()
	m.OrderValue.WithLabelValues(flow).Observe(total)
	m.OrderItemCount.WithLabelValues(flow).Observe(float64(items))
}

func (m *BusinessMetrics) OrderRejected(flow, reason string) {
	m.OrdersRejected.WithLabelValues(flow, reason).Inc()
}

func (m *BusinessMetrics) CartUpdated(action string) {
	m.CartUpdates.WithLabelValues(action).Inc()
}

func (m *BusinessMetrics) PaymentVerified(ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	m.PaymentVerifications.WithLabelValues(result).Inc()
}
