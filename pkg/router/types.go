package router

import (
	"github.com/statica-dev/statica/pkg/routepath"
)

// Route is a compiled route descriptor. Routes are produced by BuildTable and,
// except for HTMLPath, are immutable afterwards. HTMLPath is written by a
// successful build run and rebound from the manifest in serving processes.
type Route struct {
	// Name uniquely identifies the route. Derived from the page module's
	// location under the pages root.
	Name string `json:"name"`

	// Path is the URL pattern (e.g., "/detail/:id"). Derived from the page
	// module's location unless a config override supplies one.
	Path string `json:"path"`

	// Component is the page module path relative to the pages root, in
	// forward-slash form.
	Component string `json:"component"`

	// LazyLoading marks the route's component for deferred loading. When not
	// set explicitly it defaults to true iff Chunkname is non-empty.
	LazyLoading bool `json:"lazyLoading"`

	// Chunkname names the bundle chunk the component is emitted into.
	Chunkname string `json:"chunkname,omitempty"`

	// Template is the route's custom HTML template path. Empty means the
	// shared default shell.
	Template string `json:"template,omitempty"`

	// Skeleton is the route's skeleton module path. Empty means none.
	Skeleton string `json:"skeleton,omitempty"`

	// Prerender marks the route for build-time HTML generation.
	Prerender bool `json:"prerender"`

	// HTMLPath is the prerendered artifact destination. Set iff Prerender is
	// true and a build has completed successfully.
	HTMLPath string `json:"htmlPath,omitempty"`

	// Hash is a stable hex digest of Name, safe to use as a symbol name.
	Hash string `json:"hash"`

	// Matcher answers whether a concrete request path belongs to this route.
	// Always non-nil on a route returned by BuildTable.
	Matcher *routepath.Matcher `json:"-"`
}

// HasCustomTemplate reports whether the route declares its own HTML template.
func (r *Route) HasCustomTemplate() bool {
	return r.Template != ""
}

// HasSkeleton reports whether the route declares a skeleton module.
func (r *Route) HasSkeleton() bool {
	return r.Skeleton != ""
}

// Override is a per-route configuration entry, keyed by route name. Optional
// fields use pointers where an explicit false differs from absent.
type Override struct {
	// Name selects the scanned route this entry applies to.
	Name string `json:"name"`

	// Path replaces the derived URL pattern.
	Path string `json:"path,omitempty"`

	// LazyLoading, when present, wins over the chunkname-derived default.
	LazyLoading *bool `json:"lazyLoading,omitempty"`

	// Chunkname names the bundle chunk for the route's component.
	Chunkname string `json:"chunkname,omitempty"`

	// Template points at a custom HTML template for the route.
	Template string `json:"template,omitempty"`

	// Skeleton points at a skeleton module for the route.
	Skeleton string `json:"skeleton,omitempty"`

	// Prerender marks the route for build-time HTML generation.
	Prerender *bool `json:"prerender,omitempty"`
}
