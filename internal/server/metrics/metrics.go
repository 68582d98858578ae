// Package metrics exposes Prometheus counters for registration, login and
// guard decisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultFailure   = "failure"
	ResultError     = "error"
)

// Recorder is what the service layer and adapters report to.
type Recorder interface {
	RecordRegistration(result string)
	RecordLogin(result string)
	RecordGuardDecision(outcome string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	registrations  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkeeper_registrations_total",
			Help: "Registration attempts by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkeeper_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkeeper_guard_decisions_total",
			Help: "Guard chain terminal states by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.registrations, c.logins, c.guardDecisions)
	return c
}

func (c *Collector) RecordRegistration(result string) {
	c.registrations.WithLabelValues(result).Inc()
}

func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordGuardDecision(outcome string) {
	c.guardDecisions.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRegistration(string)  {}
func (Nop) RecordLogin(string)         {}
func (Nop) RecordGuardDecision(string) {}
