package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	SessionCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_commands_total",
			Help: "Session manager commands by operation and outcome",
		},
		[]string{"op", "outcome"},
	)
	WatchClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "watch_clients",
			Help: "Currently connected watch stream clients",
		},
	)
)

// CommandMetrics counts session commands by route and outcome. Applied to the
// mutating game endpoints only.
func CommandMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		outcome := "ok"
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			outcome = "error"
		case c.Writer.Status() >= http.StatusBadRequest:
			outcome = "rejected"
		}
		SessionCommands.WithLabelValues(c.FullPath(), outcome).Inc()
	}
}

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(SessionCommands)
	prometheus.MustRegister(WatchClients)
}
