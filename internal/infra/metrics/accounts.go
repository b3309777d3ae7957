package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(accountsTotal, accountsExpiringSoon)
}

var (
	accountsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "accounts_total",
			Help: "Current number of accounts by entitlement state.",
		},
		[]string{"state"}, // 'entitled', 'expired', 'pending'
	)

	accountsExpiringSoon = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "accounts_expiring_soon",
			Help: "Accounts whose subscription window ends within the sweep horizon.",
		},
	)
)

func SetAccountsTotal(entitled, expired, pending int) {
	accountsTotal.WithLabelValues("entitled").Set(float64(entitled))
	accountsTotal.WithLabelValues("expired").Set(float64(expired))
	accountsTotal.WithLabelValues("pending").Set(float64(pending))
}

func SetAccountsExpiringSoon(n int) {
	accountsExpiringSoon.Set(float64(n))
}
