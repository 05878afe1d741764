package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/statica-dev/statica/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┌┬┐┌─┐┌┬┐┬┌─┐┌─┐
  ╚═╗ │ ├─┤ │ ││  ├─┤
  ╚═╝ ┴ ┴ ┴ ┴ ┴└─┘┴ ┴
`

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "statica",
		Short: "Build-time route compiler and prerenderer",
		Long: `Statica compiles a pages directory into a route table and drives
an external bundler to prerender static HTML per route.

  • File-based routing with :param path patterns
  • Per-route config overrides (statica.json)
  • Static HTML generation with custom or shared templates
  • Batched skeleton bundles for hydration placeholders
  • Bounded prerender cache for serving processes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if os.Getenv("NO_COLOR") != "" {
		errors.DisableColors()
	}

	rootCmd.AddCommand(
		buildCmd(),
		routesCmd(),
		cleanCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// setupLogging configures the process-wide logger. Debug level with --verbose,
// warnings and up otherwise so command output stays readable.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// printBanner prints the Statica ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
