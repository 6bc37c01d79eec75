package delivery

import "github.com/prometheus/client_golang/prometheus"

// Failure reason labels.
const (
	ReasonConfig    = "config"
	ReasonEncode    = "encode"
	ReasonTransport = "transport"
	ReasonRejected  = "rejected"
)

// Metrics counts delivered and failed documents.
type Metrics struct {
	Delivered prometheus.Counter
	Failed    *prometheus.CounterVec
}

// NewMetrics builds the delivery counters and registers them when a
// registerer is given. Passing nil yields working but unregistered counters,
// which tests rely on.
func NewMetrics(r prometheus.Registerer) *Metrics {
	m := &Metrics{
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clocky_pos_documents_delivered_total",
			Help: "Canonical documents accepted by the fiscal proxy.",
		}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clocky_pos_documents_failed_total",
			Help: "Canonical documents the fiscal proxy did not accept, by reason.",
		}, []string{"reason"}),
	}
	if r != nil {
		r.MustRegister(m.Delivered, m.Failed)
	}
	return m
}

func (m *Metrics) delivered() {
	if m != nil {
		m.Delivered.Inc()
	}
}

func (m *Metrics) failed(reason string) {
	if m != nil {
		m.Failed.WithLabelValues(reason).Inc()
	}
}
