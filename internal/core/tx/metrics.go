package tx

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine activity. A nil *Metrics records nothing.
type Metrics struct {
	transactions *prometheus.CounterVec
	payouts      prometheus.Counter
}

// NewMetrics creates the engine collectors and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solcastd",
			Name:      "transactions_total",
			Help:      "Transactions processed by the engine, by type and result.",
		}, []string{"type", "result"}),
		payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solcastd",
			Name:      "escrow_payout_total",
			Help:      "Base units released from market escrow to winners.",
		}),
	}

	var err error
	if m.transactions, err = registerOrReuse(reg, m.transactions); err != nil {
		return nil, err
	}
	if m.payouts, err = registerOrReuse(reg, m.payouts); err != nil {
		return nil, err
	}
	return m, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(t Type, r Result) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(t.String(), r.String()).Inc()
}

func (m *Metrics) paid(units uint64) {
	if m == nil || units == 0 {
		return
	}
	m.payouts.Add(float64(units))
}
