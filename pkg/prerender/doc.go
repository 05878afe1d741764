// Package prerender serves build-time rendered HTML in production.
//
// The package has two halves. Gate decides whether a request path is
// eligible: the engine must run in production mode, a route pattern must
// accept the path, and that route must have opted in to prerendering.
// Cache then serves the route's HTML artifact through a bounded
// read-through cache, so repeated requests hit memory instead of disk.
//
//	gate := prerender.Gate{Production: true, Routes: table}
//	cache := prerender.New(prerender.Options{})
//
//	if route, ok := gate.ShouldPrerender(path); ok {
//	    entry, err := cache.Get(ctx, path, route.HTMLPath)
//	    if err == nil {
//	        // serve entry.Body with entry.ETag
//	    }
//	    // errors.Is(err, prerender.ErrNotPrerendered): fall back to live
//	    // rendering.
//	}
//
// Entries are evicted least-recently-used past the configured capacity and
// expire a fixed interval after insertion; a cache hit refreshes recency
// but never the lifetime. Concurrent misses for one path share a single
// artifact read. Optional prometheus counters are attached with
// Options.Metrics:
//
//	cache := prerender.New(prerender.Options{
//	    Metrics: prerender.NewMetrics(prerender.WithNamespace("mysite")),
//	})
package prerender
