package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var once sync.Once

var (
	// RedirectsTotal counts resolutions by outcome: hit, miss or error.
	RedirectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linklite_redirects_total",
			Help: "Short link resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	// LinksCreatedTotal counts successfully created short links.
	LinksCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linklite_links_created_total",
			Help: "Short links created.",
		},
	)
)

// Init registers the collectors with the default registry. Safe to call more
// than once; the registry panics on duplicate registration.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(RedirectsTotal, LinksCreatedTotal)
	})
}
