package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(redemptionsTotal)
}

var redemptionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redemptions_total",
		Help: "Redemption attempts by outcome.",
	},
	// 'success', 'conflict', 'not_found', 'invalid', 'rate_limited', 'account_update_failed'
	[]string{"outcome"},
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncRedemption(outcome string) {
	redemptionsTotal.WithLabelValues(norm(outcome)).Inc()
}
