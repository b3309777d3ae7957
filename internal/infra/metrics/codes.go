package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(codesIssuedTotal)
}

var codesIssuedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "activation_codes_issued_total",
		Help: "Activation codes created, by issuance source.",
	},
	[]string{"source"}, // 'batch', 'manual'
)

func AddCodesIssued(count int, source string) {
	codesIssuedTotal.WithLabelValues(norm(source)).Add(float64(count))
}
