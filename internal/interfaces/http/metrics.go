package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas de decisiones del motor de licencias. reason="ok" para éxitos.
var (
	activationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "license_activation_decisions_total",
		Help: "Decisiones de activación por razón",
	}, []string{"reason"})

	deactivationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "license_deactivation_decisions_total",
		Help: "Decisiones de desactivación por razón",
	}, []string{"reason"})
)

func decisionLabel(ok bool, reason string) string {
	if ok {
		return "ok"
	}
	return reason
}
