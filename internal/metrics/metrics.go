package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCommit   = "commit"
	OutcomeRollback = "rollback"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	EventsPublished *prometheus.CounterVec
	UnitsOfWork     *prometheus.CounterVec
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "competitions_domain_events_total",
			Help: "Domain events published after a successful commit",
		}, []string{"event"}),
		UnitsOfWork: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "competitions_units_of_work_total",
			Help: "Units of work by how they ended",
		}, []string{"outcome"}),
	}
}

// IncEvent counts one published event. Safe on a nil receiver.
func (m *Metrics) IncEvent(name string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(name).Inc()
}

// IncUnitOfWork counts a finished unit of work. Safe on a nil receiver.
func (m *Metrics) IncUnitOfWork(outcome string) {
	if m == nil {
		return
	}
	m.UnitsOfWork.WithLabelValues(outcome).Inc()
}
