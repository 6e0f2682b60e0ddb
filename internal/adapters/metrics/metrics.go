package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"partyreg/internal/domain"
)

type Metrics struct {
	Submissions          *prometheus.CounterVec
	RegistrationsCreated prometheus.Counter
	RealtimeRefreshes    prometheus.Counter
}

var _ domain.Metrics = (*Metrics)(nil)

// New registers the registration counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "partyreg_submissions_total",
			Help: "Registration form submissions by outcome",
		}, []string{"outcome"}),
		RegistrationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "partyreg_registrations_created_total",
			Help: "Registration rows inserted through the public form",
		}),
		RealtimeRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "partyreg_realtime_refreshes_total",
			Help: "Registration view reloads triggered by change notifications",
		}),
	}
}

func (m *Metrics) ObserveSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddRegistrationsCreated(n int) {
	m.RegistrationsCreated.Add(float64(n))
}

func (m *Metrics) IncRealtimeRefresh() {
	m.RealtimeRefreshes.Inc()
}
