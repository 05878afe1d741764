package bundler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrNoCommand reports a session with no bundler executable configured.
var ErrNoCommand = errors.New("bundler: no command configured")

// ErrBadOutput reports a bundler process that exited cleanly but printed
// something other than a completion report.
var ErrBadOutput = errors.New("bundler: undecodable result")

// ExecOptions configures an Exec bundler.
type ExecOptions struct {
	// Command is the bundler executable.
	Command string

	// Args are fixed arguments placed before the session is piped in.
	Args []string

	// Dir is the process working directory. Empty means the caller's.
	Dir string

	// Build carries session-wide switches into the wire config.
	Build BuildOptions

	// Logger receives session logs. Nil selects slog.Default().
	Logger *slog.Logger
}

// Exec drives an external bundler process. Compile serializes the assembled
// session to JSON on the process's stdin and decodes a CompileResult from
// its stdout. A process that exits non-zero but still prints a decodable
// result is treated as a completed compilation whose diagnostics speak for
// themselves.
type Exec struct {
	command string
	args    []string
	dir     string
	build   BuildOptions
	logger  *slog.Logger

	mu      sync.Mutex
	entries []Entry
	plugins []PluginConfig
}

// NewExec creates an exec-based bundler session.
func NewExec(opts ExecOptions) *Exec {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{
		command: opts.Command,
		args:    opts.Args,
		dir:     opts.Dir,
		build:   opts.Build,
		logger:  logger,
	}
}

// RegisterEntry implements Bundler.
func (e *Exec) RegisterEntry(name string, sources []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, Entry{Name: name, Sources: sources})
}

// RegisterPlugin implements Bundler.
func (e *Exec) RegisterPlugin(plugin Plugin) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plugins = append(e.plugins, pluginConfig(plugin))
}

// Compile implements Bundler. ctx is honored only before the process starts:
// a compilation that has begun always runs to completion, and a caller that
// abandons the build discards the result.
func (e *Exec) Compile(ctx context.Context) (*CompileResult, error) {
	if e.command == "" {
		return nil, ErrNoCommand
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config := e.snapshot()
	payload, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("bundler: encode session: %w", err)
	}

	e.logger.Debug("invoking bundler",
		slog.String("command", e.command),
		slog.Int("entries", len(config.Entries)),
		slog.Int("plugins", len(config.Plugins)))

	start := time.Now()
	// Not CommandContext: there is no mid-compile cancellation.
	cmd := exec.Command(e.command, e.args...)
	cmd.Dir = e.dir
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) > 0 {
		var result CompileResult
		if decodeErr := json.Unmarshal(out, &result); decodeErr == nil {
			if runErr != nil && len(result.Errors) == 0 {
				return nil, fmt.Errorf("bundler %s: %w: %s", e.command, runErr, stderrTail(&stderr))
			}
			e.logger.Debug("bundler finished",
				slog.Duration("duration", time.Since(start)),
				slog.Int("errors", len(result.Errors)),
				slog.Int("warnings", len(result.Warnings)))
			return &result, nil
		}
	}

	if runErr != nil {
		return nil, fmt.Errorf("bundler %s: %w: %s", e.command, runErr, stderrTail(&stderr))
	}
	if len(out) > 0 {
		return nil, fmt.Errorf("%w from %s: %s", ErrBadOutput, e.command, truncate(string(out), 256))
	}
	return &CompileResult{}, nil
}

func (e *Exec) snapshot() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	config := Config{
		Options: e.build,
		Entries: make([]Entry, len(e.entries)),
		Plugins: make([]PluginConfig, len(e.plugins)),
	}
	copy(config.Entries, e.entries)
	copy(config.Plugins, e.plugins)
	return config
}

// stderrTail returns the end of the process's stderr for error messages.
func stderrTail(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return "(no stderr)"
	}
	return truncate(s, 512)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
