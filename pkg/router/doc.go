// Package router builds the route table for a Statica project.
//
// The router provides:
//   - File-system based page discovery from the pages directory
//   - Route descriptors with name, URL pattern and build metadata
//   - Per-route compiled matchers for prerender eligibility checks
//   - Config override merging by route name
//   - Duplicate-name and malformed-pattern validation
//
// # File Structure Convention
//
// Routes are derived from page modules under the pages directory:
//
//	pages/
//	├── index.vue          → /          (name "index")
//	├── home.vue           → /home      (name "home")
//	├── shop/
//	│   ├── index.vue      → /shop      (name "shop")
//	│   └── [item].vue     → /shop/:item (name "shop-item")
//	└── detail/
//	    └── _id_.vue       → /detail/:id (name "detail-id")
//
// Dynamic segments use bracket notation ([id].vue) or underscore notation
// (_id_.vue); both compile to :id. Files and directories starting with "_"
// are treated as shared fragments and skipped, except underscore parameter
// files.
//
// # Usage
//
//	table, err := router.BuildTable("pages", cfg.Router.Routes)
//	if err != nil {
//	    // duplicate names and malformed patterns are reported together
//	}
//
//	route, ok := table.FindMatch("/detail/42")
//	if ok && route.Prerender {
//	    // serve route.HTMLPath
//	}
//
// Matching is boolean: a matcher answers whether a path belongs to a route.
// Parameter values are extracted by the client-side runtime, not here.
package router
