package router

import (
	"fmt"

	"github.com/statica-dev/statica/pkg/routepath"
)

// Table is an ordered collection of compiled routes. Iteration order is the
// scanner's discovery order; lookups go by name or by matching a concrete
// request path, never by position.
//
// A Table is immutable after construction except for the HTMLPath field of
// its routes, which the build writes (one goroutine per route, disjoint
// fields) and serving processes rebind from the manifest before use.
type Table struct {
	routes   []*Route
	byName   map[string]*Route
	warnings []string
}

// BuildOptions configures table construction.
type BuildOptions struct {
	// Extensions lists the accepted page module extensions (with leading
	// dot). Nil selects DefaultExtensions.
	Extensions []string
}

// BuildTable scans pagesRoot and builds the route table, applying config
// overrides by route name.
func BuildTable(pagesRoot string, overrides []Override) (*Table, error) {
	return BuildTableWithOptions(pagesRoot, overrides, BuildOptions{})
}

// BuildTableWithOptions is BuildTable with explicit options.
//
// For every discovered page the derived name and path form the descriptor
// defaults; an override with a matching name may then replace the path and
// supply chunkname, template, skeleton and prerender. LazyLoading follows the
// override when given explicitly and otherwise defaults to "has a chunkname".
//
// Construction fails with a MultiValidationError listing every duplicate
// route name and every path pattern that does not compile. Overrides that
// match no discovered page are recorded as warnings on the table.
func BuildTableWithOptions(pagesRoot string, overrides []Override, opts BuildOptions) (*Table, error) {
	pages, err := NewScanner(pagesRoot, opts.Extensions).Scan()
	if err != nil {
		return nil, fmt.Errorf("scanning pages: %w", err)
	}

	t := &Table{byName: make(map[string]*Route, len(pages))}

	byName := make(map[string]*Override, len(overrides))
	matched := make(map[string]bool, len(overrides))
	for i := range overrides {
		ov := &overrides[i]
		if _, exists := byName[ov.Name]; exists {
			t.warnings = append(t.warnings,
				fmt.Sprintf("duplicate route override %q; the last entry wins", ov.Name))
		}
		byName[ov.Name] = ov
	}

	var verrs []ValidationError

	seen := make(map[string][]string, len(pages))
	for _, page := range pages {
		seen[page.Name] = append(seen[page.Name], page.File)
	}
	for _, page := range pages {
		files := seen[page.Name]
		if len(files) > 1 && files[0] == page.File {
			verrs = append(verrs, ValidationError{
				Type:    ErrorDuplicateName,
				Message: fmt.Sprintf("Duplicate route name %q", page.Name),
				Route:   page.Name,
				Files:   files,
				Details: fmt.Sprintf("Pages: %s", joinFiles(files)),
			})
		}
	}

	for _, page := range pages {
		route := &Route{
			Name:      page.Name,
			Path:      page.Path,
			Component: page.File,
		}

		if ov, ok := byName[route.Name]; ok {
			matched[route.Name] = true
			applyOverride(route, ov)
		}
		route.LazyLoading = lazyLoadingFor(route, byName[route.Name])
		route.Hash = RouteHash(route.Name)

		matcher, err := routepath.Compile(route.Path)
		if err != nil {
			verrs = append(verrs, ValidationError{
				Type:    ErrorMalformedPattern,
				Message: fmt.Sprintf("Malformed route pattern %q", route.Path),
				Route:   route.Name,
				Files:   []string{page.File},
				Details: err.Error(),
			})
			continue
		}
		route.Matcher = matcher

		if _, dup := t.byName[route.Name]; dup {
			// Already reported above; keep the first occurrence out of the
			// name index untouched.
			continue
		}
		t.routes = append(t.routes, route)
		t.byName[route.Name] = route
	}

	for _, ov := range overrides {
		if !matched[ov.Name] {
			t.warnings = append(t.warnings,
				fmt.Sprintf("route override %q matches no page under %s", ov.Name, pagesRoot))
		}
	}

	if len(verrs) > 0 {
		return nil, &MultiValidationError{Errors: verrs}
	}

	return t, nil
}

// applyOverride copies the override's set fields onto the route.
func applyOverride(route *Route, ov *Override) {
	if ov.Path != "" {
		route.Path = ov.Path
	}
	if ov.Chunkname != "" {
		route.Chunkname = ov.Chunkname
	}
	if ov.Template != "" {
		route.Template = ov.Template
	}
	if ov.Skeleton != "" {
		route.Skeleton = ov.Skeleton
	}
	if ov.Prerender != nil {
		route.Prerender = *ov.Prerender
	}
}

// lazyLoadingFor resolves the lazy-loading flag: an explicit override value
// wins; otherwise a route is lazy exactly when it has a chunkname.
func lazyLoadingFor(route *Route, ov *Override) bool {
	if ov != nil && ov.LazyLoading != nil {
		return *ov.LazyLoading
	}
	return route.Chunkname != ""
}

func joinFiles(files []string) string {
	out := ""
	for i, f := range files {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}

// Routes returns the routes in table order. The slice is shared; callers must
// not reorder it.
func (t *Table) Routes() []*Route {
	return t.routes
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Get returns the route with the given name.
func (t *Table) Get(name string) (*Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// FindMatch returns the first route, in table order, whose matcher accepts
// path.
func (t *Table) FindMatch(path string) (*Route, bool) {
	for _, r := range t.routes {
		if r.Matcher.Match(path) {
			return r, true
		}
	}
	return nil, false
}

// Names returns the route names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.routes))
	for i, r := range t.routes {
		names[i] = r.Name
	}
	return names
}

// Warnings returns non-fatal notes collected during construction, such as
// overrides that matched no page.
func (t *Table) Warnings() []string {
	return t.warnings
}
