package mock

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts registry decisions per rule and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the registry counters and registers them with r.
func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shimmock",
			Name:      "requests_total",
			Help:      "Requests seen by the mock registry, by rule and outcome.",
		}, []string{"rule", "outcome"}),
	}
	if err := r.Register(m.requests); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(rule string, outcome Outcome) {
	m.requests.WithLabelValues(rule, string(outcome)).Inc()
}
