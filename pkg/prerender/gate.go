package prerender

import (
	"github.com/statica-dev/statica/pkg/router"
)

// RouteFinder matches request paths to routes. *router.Table satisfies it.
type RouteFinder interface {
	FindMatch(path string) (*router.Route, bool)
}

// Gate decides whether a request path is eligible for prerendered content.
//
// A path passes only when the engine runs in production mode, some route's
// pattern accepts the path, and that route opted in to prerendering. The
// decision uses pattern matching alone; it never consults the cache or the
// filesystem, so a passing path can still miss (ErrNotPrerendered) when no
// artifact was built.
type Gate struct {
	// Production gates all prerender serving. In development every path is
	// rejected so edits show up on the next request.
	Production bool

	// Routes supplies pattern matching. A nil Routes rejects every path.
	Routes RouteFinder
}

// ShouldPrerender reports whether path is eligible, and for eligible paths
// returns the matching route.
func (g Gate) ShouldPrerender(path string) (*router.Route, bool) {
	if !g.Production || g.Routes == nil {
		return nil, false
	}
	route, ok := g.Routes.FindMatch(path)
	if !ok || !route.Prerender {
		return nil, false
	}
	return route, true
}
