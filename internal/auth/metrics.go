package auth

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// permissionChecks counts route level authorization decisions.
var permissionChecks = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "permission_checks_total",
		Help: "Number of route permission checks, differentiated by permission and result.",
	},
	[]string{"permission", "result"},
)

func recordDecision(permissions []string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}

	permissionChecks.WithLabelValues(strings.Join(permissions, ","), result).Inc()
}
