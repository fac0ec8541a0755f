package conversation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "finances_bots",
		Subsystem: "conversation",
		Name:      "transitions_total",
	},
	[]string{"bot", "from", "to"},
)

func observeTransition(bot Kind, from, to State) {
	transitionsTotal.
		WithLabelValues(bot.String(), from.String(), to.String()).
		Inc()
}
