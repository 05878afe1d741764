package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/statica-dev/statica/internal/build"
	"github.com/statica-dev/statica/internal/config"
	"github.com/statica-dev/statica/pkg/router"
)

func buildCmd() *cobra.Command {
	var (
		output string
		env    string
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the route table and prerender static HTML",
		Long: `Compile the pages directory into a route table and run one
bundler pass over it.

This command:
  • Scans the pages directory and merges statica.json overrides
  • Registers one entry per route with the bundler
  • Prerenders <name>.html for every route marked prerender
  • Batches skeleton modules into a single secondary bundle
  • Writes the build manifest for serving processes

Examples:
  statica build
  statica build --output=dist --env=production
  statica build --clean`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, env, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from statica.json)")
	cmd.Flags().StringVar(&env, "env", "", "Override env (production or development)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output directory before build")

	return cmd
}

func runBuild(output, env string, clean bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Paths.Output = output
	}
	if env != "" {
		cfg.Env = env
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	fmt.Println("  Building route table...")
	fmt.Println()

	table, err := router.BuildTableWithOptions(cfg.PagesPath(), cfg.Router.Routes, router.BuildOptions{
		Extensions: cfg.Extensions(),
	})
	if err != nil {
		return err
	}

	builder := build.New(cfg, build.Options{
		OnProgress: func(step string) {
			info(step)
		},
	})

	if clean {
		info("Cleaning output directory...")
		if err := builder.Clean(); err != nil {
			return err
		}
	}

	// SIGINT/SIGTERM cancel between build phases; a bundler invocation that
	// has already started runs to completion.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := builder.Run(ctx, table)
	if err != nil {
		return err
	}

	fmt.Println()
	for _, w := range report.Warnings {
		warn(w)
	}
	success("Build complete in %s", report.Duration.Round(time.Millisecond))
	fmt.Println()
	info("Routes:           %d", report.Routes)
	info("Prerendered:      %d", report.Prerendered)
	if report.SkeletonEntries > 0 {
		info("Skeleton entries: %d", report.SkeletonEntries)
	}
	info("Output:           %s", report.OutputDir)
	if report.ManifestPath != "" {
		info("Manifest:         %s", report.ManifestPath)
	}
	fmt.Println()

	return nil
}
