package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for identity resolution and provisioning.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	AccountsCreated *prometheus.CounterVec
	ProfilesCreated prometheus.Counter
}

// New registers the identity metrics with reg. A nil registerer leaves them
// unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peoplehub_identity_resolutions_total",
			Help: "Sign-in resolutions by channel and outcome",
		}, []string{"channel", "outcome"}),
		AccountsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peoplehub_accounts_created_total",
			Help: "Accounts created, by the channel that created them",
		}, []string{"channel"}),
		ProfilesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "peoplehub_profiles_created_total",
			Help: "Profiles created by the provisioner",
		}),
	}
}

func (m *Metrics) ObserveResolution(channel, outcome string) {
	m.Resolutions.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) IncAccountCreated(channel string) {
	m.AccountsCreated.WithLabelValues(channel).Inc()
}

func (m *Metrics) IncProfileCreated() {
	m.ProfilesCreated.Inc()
}
