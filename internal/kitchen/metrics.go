package kitchen

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	refetchFailures prometheus.Counter
	activeOrders    *prometheus.GaugeVec
}

// NewMetrics registers the kitchen collectors on reg. A nil reg gives working
// but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_kitchen_refetch_failures_total",
			Help: "Kitchen display fetches that failed and left the previous board on screen",
		}),
		activeOrders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pos_kitchen_orders",
			Help: "Orders on the kitchen board by status",
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.refetchFailures, m.activeOrders)
	}
	return m
}
