// Package errors provides structured, actionable error messages for Statica.
//
// The errors package implements a comprehensive error system that:
//   - Shows exact source locations (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues with code examples
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: Configuration errors (malformed statica.json, unknown fields)
//   - routing: Route table errors (duplicate names, malformed path patterns)
//   - prerender: Prerender artifact errors (missing HTML, stale manifest)
//   - build: Bundler orchestration errors (compile failures, missing templates)
//   - publish: Artifact publishing errors (upload failures, missing output)
//   - cli: Command-line errors (not a project, bad flags)
//
// # Error Codes
//
// Each error has a unique code (e.g., "S201") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("S200").
//	    WithLocation("statica.json", 14, 22).
//	    WithSuggestion("Parameter segments look like /detail/:id")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR S200: Malformed route pattern
//	//
//	//   statica.json:14:22
//	//
//	//     13 │     { "name": "home", "path": "/" },
//	//   → 14 │     { "name": "detail", "path": "/detail/:" },
//	//        │                                  ^
//	//     15 │   ]
//	//
//	//   Hint: Parameter segments look like /detail/:id
//	//
//	//   Learn more: https://statica.dev/docs/errors/S200
package errors
