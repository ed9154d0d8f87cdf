package service

import "github.com/prometheus/client_golang/prometheus"

var (
	claimsCommitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_claims_committed_total",
			Help: "Committed discoveries by chain mode",
		},
		[]string{"mode"},
	)
	claimsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_claims_rejected_total",
			Help: "Rejected discovery claims by reason",
		},
		[]string{"reason"},
	)
	treasuresSynthesized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "treasures_synthesized_total",
			Help: "Treasures created on the degraded discovery path",
		},
	)
)

func init() {
	prometheus.MustRegister(claimsCommitted)
	prometheus.MustRegister(claimsRejected)
	prometheus.MustRegister(treasuresSynthesized)
}
