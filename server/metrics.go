package server

import "github.com/prometheus/client_golang/prometheus"

var (
	metricSignalsReceived = prometheus.NewCounter(prometheus.CounterOpts{Name: "tradehook_signals_received_total", Help: "Webhook signals received"})
	metricSignalsRejected = prometheus.NewCounter(prometheus.CounterOpts{Name: "tradehook_signals_rejected_total", Help: "Signals rejected for bad auth or payload"})
	metricSignalsBlocked  = prometheus.NewCounter(prometheus.CounterOpts{Name: "tradehook_signals_blocked_total", Help: "Signals refused by a risk gate"})
	metricTradesRecorded  = prometheus.NewCounter(prometheus.CounterOpts{Name: "tradehook_trades_recorded_total", Help: "Positions opened in the ledger"})
	metricOrdersFailed    = prometheus.NewCounter(prometheus.CounterOpts{Name: "tradehook_orders_failed_total", Help: "Live orders the broker did not confirm"})
	metricPositionsClosed = prometheus.NewCounter(prometheus.CounterOpts{Name: "tradehook_positions_closed_total", Help: "Positions closed via the manual close endpoint"})
)

func init() {
	prometheus.MustRegister(
		metricSignalsReceived,
		metricSignalsRejected,
		metricSignalsBlocked,
		metricTradesRecorded,
		metricOrdersFailed,
		metricPositionsClosed,
	)
}
