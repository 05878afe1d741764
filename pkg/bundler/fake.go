package bundler

import (
	"context"
	"sync"
)

// Fake is an in-memory Bundler for tests. It records every registration and
// returns a scripted Compile result.
type Fake struct {
	// Result and Err script Compile's return values. A nil Result with a
	// nil Err compiles cleanly.
	Result *CompileResult
	Err    error

	mu           sync.Mutex
	entries      []Entry
	plugins      []Plugin
	compileCalls int
}

// RegisterEntry implements Bundler.
func (f *Fake) RegisterEntry(name string, sources []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, Entry{Name: name, Sources: sources})
}

// RegisterPlugin implements Bundler.
func (f *Fake) RegisterPlugin(plugin Plugin) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plugins = append(f.plugins, plugin)
}

// Compile implements Bundler.
func (f *Fake) Compile(_ context.Context) (*CompileResult, error) {
	f.mu.Lock()
	f.compileCalls++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if f.Result != nil {
		return f.Result, nil
	}
	return &CompileResult{}, nil
}

// Entries returns the registered entries in registration order.
func (f *Fake) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entry(nil), f.entries...)
}

// Plugins returns the registered plugins in registration order.
func (f *Fake) Plugins() []Plugin {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Plugin(nil), f.plugins...)
}

// HTMLPlugins returns the registered HTML output instructions.
func (f *Fake) HTMLPlugins() []HTMLPlugin {
	var out []HTMLPlugin
	for _, p := range f.Plugins() {
		if html, ok := p.(HTMLPlugin); ok {
			out = append(out, html)
		}
	}
	return out
}

// SkeletonPlugins returns the registered skeleton batches.
func (f *Fake) SkeletonPlugins() []SkeletonPlugin {
	var out []SkeletonPlugin
	for _, p := range f.Plugins() {
		if skeleton, ok := p.(SkeletonPlugin); ok {
			out = append(out, skeleton)
		}
	}
	return out
}

// CompileCalls returns how many times Compile ran.
func (f *Fake) CompileCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compileCalls
}
