// Package build orchestrates production builds for statica projects.
//
// A build walks the compiled route table, registers one bundler entry per
// route, attaches an HTML output instruction to every prerendering route,
// batches all skeleton modules into a single secondary compilation, and then
// invokes the bundler exactly once. On success each prerendering route's
// HTMLPath points at its artifact under the output root and the build
// manifest records every artifact; on failure the table is left exactly as
// it was before the run.
//
// # Usage
//
//	builder := build.New(cfg, build.Options{})
//	report, err := builder.Run(ctx, table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Built %d routes in %s\n", report.Routes, report.Duration)
//	fmt.Printf("Prerendered: %d\n", report.Prerendered)
//
// # Output Structure
//
//	dist/
//	├── home.html                  # prerendered documents, one per route
//	├── detail-id.html
//	└── statica-manifest.json      # artifact manifest
//
// The bundler also emits its own assets (JS chunks, CSS) into the same
// output root; the orchestrator only tracks the documents it asked for.
package build
