package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Server-side counters, exposed at /metrics. Registered on the default
// registry so promhttp.Handler picks them up without wiring.
var (
	reportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disku_reports_total",
		Help: "Disk usage reports accepted.",
	})

	reportErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "disku_report_errors_total",
		Help: "Reports or report paths rejected, by reason.",
	}, []string{"reason"})

	alarmsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disku_alarms_total",
		Help: "Paths that triggered at least one alarm condition.",
	})
)
