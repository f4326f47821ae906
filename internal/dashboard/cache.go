package dashboard

import (
	"sync"

	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

// cacheKey includes every input that affects a computed metro view. The
// dataset fingerprint keeps stale views from surviving a file reload.
type cacheKey struct {
	Fingerprint string
	Year        int
	Metric      metrics.Metric
}

// viewCache memoizes computed metro views. Recomputation is idempotent, so
// a cached view is bit-identical to a fresh one; the cache exists so map
// interactions do not re-run matching for the same (dataset, year, metric).
type viewCache struct {
	mu    sync.Mutex
	views map[cacheKey]*MetroView
}

func newViewCache() *viewCache {
	return &viewCache{views: make(map[cacheKey]*MetroView)}
}

func (c *viewCache) get(key cacheKey) (*MetroView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[key]
	return v, ok
}

func (c *viewCache) put(key cacheKey, view *MetroView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[key] = view
}

func (c *viewCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = make(map[cacheKey]*MetroView)
}
