package highscore

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	gameLabel   = "game"
	reasonLabel = "reason"
	routeLabel  = "route"
	codeLabel   = "code"
)

var (
	scoresReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "highscore_scores_received_total",
		Help: "The number of scores accepted.",
	}, []string{
		gameLabel,
	})

	scoresRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "highscore_scores_rejected_total",
		Help: "The number of submissions refused, by reason.",
	}, []string{
		reasonLabel,
	})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "highscore_request_seconds",
		Help: "The time to serve a request.",
	}, []string{
		routeLabel,
		codeLabel,
	})
)

func instrumentScoreReceived(game string) {
	scoresReceived.With(prometheus.Labels{gameLabel: game}).Inc()
}

func instrumentScoreRejected(reason string) {
	scoresRejected.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records the latency of every request served by h under route.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		requestLatency.With(prometheus.Labels{
			routeLabel: route,
			codeLabel:  http.StatusText(rec.code),
		}).Observe(time.Since(start).Seconds())
	}
}
