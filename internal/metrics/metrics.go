package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal counts scan attempts by outcome (created, updated,
	// already_present, or the rejection reason).
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classcheck_scans_total",
		Help: "Scan attempts by outcome.",
	}, []string{"outcome"})

	// ProvisionedRows counts absent rows seeded at session start.
	ProvisionedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classcheck_provisioned_rows_total",
		Help: "Baseline absent rows inserted by session provisioning.",
	})

	// EmailsTotal counts batch email deliveries by status.
	EmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classcheck_emails_total",
		Help: "Batch email deliveries by status.",
	}, []string{"status"})
)
