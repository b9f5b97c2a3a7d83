package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazyplan_mutations_total",
		Help: "Entity store mutations by entity kind and operation.",
	}, []string{"entity", "op"})

	Persists = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazyplan_persist_total",
		Help: "Document saves by result (ok, error).",
	}, []string{"result"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazyplan_login_total",
		Help: "Login attempts by result (ok, rejected).",
	}, []string{"result"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
