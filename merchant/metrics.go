package merchant

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qris"

// Metrics holds the service counters on a registry of its own, so several
// apps can live in one process (tests).
type Metrics struct {
	reg *prometheus.Registry

	PaymentsTotal    *prometheus.CounterVec
	PaymentAmount    prometheus.Histogram
	ValidationsTotal *prometheus.CounterVec
	ImagesTotal      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		PaymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Dynamic payment requests by outcome",
			},
			[]string{"result"},
		),
		PaymentAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payment_total_amount",
				Help:      "Total amount encoded into issued payloads",
				Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
			},
		),
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payload_validations_total",
				Help:      "Payload checksum validations by outcome",
			},
			[]string{"result"},
		),
		ImagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "images_total",
				Help:      "QR image operations by direction and outcome",
			},
			[]string{"op", "result"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
