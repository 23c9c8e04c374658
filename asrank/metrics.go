package asrank

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	entityCache   = "entity"
	coneCache     = "cone"
	neighborCache = "neighbor"
	orgCache      = "organization"
	siblingCache  = "sibling"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asrank_cache_lookups_total",
	Help: "Session cache lookups, by cache and result",
}, []string{"cache", "result"})

func cacheHit(cache string) {
	cacheLookups.WithLabelValues(cache, "hit").Inc()
}

func cacheMiss(cache string) {
	cacheLookups.WithLabelValues(cache, "miss").Inc()
}
