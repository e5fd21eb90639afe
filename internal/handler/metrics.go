package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_logins_total",
			Help: "Total number of login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	searchRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storybook_search_requests_total",
		Help: "Total number of book search requests.",
	})
)
