package geocode

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "emercare",
	Subsystem: "geocode",
	Name:      "lookups_total",
	Help:      "Nominatim lookups by direction and outcome",
}, []string{"direction", "outcome"})
