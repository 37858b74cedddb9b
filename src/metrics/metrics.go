package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignUps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizon_signups_total",
		Help: "Sign-up attempts by outcome.",
	}, []string{"outcome"})

	BankLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizon_bank_links_total",
		Help: "Bank link completions by outcome.",
	}, []string{"outcome"})

	SignIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizon_signins_total",
		Help: "Sign-in attempts by outcome.",
	}, []string{"outcome"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
