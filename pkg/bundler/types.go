// Package bundler defines the compilation surface the build orchestrator
// drives, plus an exec-based implementation that shells out to an external
// bundler process.
package bundler

import (
	"context"
)

// Bundler assembles one compilation session and runs it. A session is
// single-use: register entries and output instructions, then call Compile
// once. Registration must be safe for concurrent use; Compile is called from
// one goroutine after all registration has completed.
type Bundler interface {
	// RegisterEntry adds a primary entry point built from sources.
	RegisterEntry(name string, sources []string)

	// RegisterPlugin adds an output instruction.
	RegisterPlugin(plugin Plugin)

	// Compile runs the session and blocks until the bundler finishes.
	// A non-nil error means the bundler could not run or broke protocol.
	// Compiler diagnostics travel in the result: Errors are fatal to the
	// build, Warnings are not.
	Compile(ctx context.Context) (*CompileResult, error)
}

// Entry is a named entry point and its source files.
type Entry struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

// Plugin is an output instruction for the bundler. HTMLPlugin and
// SkeletonPlugin are the two kinds the orchestrator registers.
type Plugin interface {
	// Kind identifies the plugin on the wire.
	Kind() string
}

// HTMLPlugin instructs the bundler to emit one HTML document rendered from
// Template, wired to the named entry's assets.
type HTMLPlugin struct {
	// Filename is the output document path relative to the output root.
	Filename string `json:"filename"`

	// Template is the source HTML document.
	Template string `json:"template"`

	// Entry names the entry point whose assets the document references.
	Entry string `json:"entry"`
}

// Kind implements Plugin.
func (HTMLPlugin) Kind() string { return "html" }

// SkeletonPlugin carries the secondary compilation that renders skeleton
// markup. A session registers at most one, batching every skeleton entry.
type SkeletonPlugin struct {
	Config SecondaryConfig `json:"config"`
}

// Kind implements Plugin.
func (SkeletonPlugin) Kind() string { return "skeleton" }

// SecondaryConfig is the batched secondary compilation.
type SecondaryConfig struct {
	Entries []Entry `json:"entries"`
}

// CompileResult is the bundler's completion report.
type CompileResult struct {
	// Errors are fatal compiler diagnostics. A non-empty slice fails the
	// build.
	Errors []string `json:"errors,omitempty"`

	// Warnings are non-fatal diagnostics.
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether compilation succeeded.
func (r *CompileResult) OK() bool {
	return r != nil && len(r.Errors) == 0
}

// BuildOptions are session-wide bundler switches.
type BuildOptions struct {
	Minify     bool `json:"minify,omitempty"`
	SourceMaps bool `json:"sourceMaps,omitempty"`
}

// Config is the wire form of a session, serialized to JSON for the external
// bundler process.
type Config struct {
	Options BuildOptions   `json:"options"`
	Entries []Entry        `json:"entries"`
	Plugins []PluginConfig `json:"plugins"`
}

// PluginConfig is the wire form of one registered plugin.
type PluginConfig struct {
	Kind     string          `json:"kind"`
	HTML     *HTMLPlugin     `json:"html,omitempty"`
	Skeleton *SkeletonPlugin `json:"skeleton,omitempty"`
}

func pluginConfig(p Plugin) PluginConfig {
	switch p := p.(type) {
	case HTMLPlugin:
		return PluginConfig{Kind: p.Kind(), HTML: &p}
	case *HTMLPlugin:
		return PluginConfig{Kind: p.Kind(), HTML: p}
	case SkeletonPlugin:
		return PluginConfig{Kind: p.Kind(), Skeleton: &p}
	case *SkeletonPlugin:
		return PluginConfig{Kind: p.Kind(), Skeleton: p}
	default:
		return PluginConfig{Kind: p.Kind()}
	}
}
