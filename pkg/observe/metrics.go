package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics counts schema gate and mutation outcomes per family.
type PrometheusMetrics struct {
	validations *prometheus.CounterVec
	mutations   *prometheus.CounterVec
}

// NewPrometheusMetrics constructs the counter vectors and registers them on
// the supplied registerer. Passing nil registers on the default registry.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "record_validation_total",
			Help: "Schema gate outcomes by record family and result.",
		}, []string{"family", "result"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "record_mutation_total",
			Help: "Mutation attempts by record family and commit result.",
		}, []string{"family", "result"}),
	}
	if err := reg.Register(m.validations); err != nil {
		return nil, err
	}
	if err := reg.Register(m.mutations); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveValidation records one schema gate outcome.
func (m *PrometheusMetrics) ObserveValidation(family string, valid bool) {
	m.validations.WithLabelValues(family, resultLabel(valid)).Inc()
}

// ObserveMutation records one mutation attempt.
func (m *PrometheusMetrics) ObserveMutation(family string, committed bool) {
	m.mutations.WithLabelValues(family, resultLabel(committed)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
