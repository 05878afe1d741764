package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/statica-dev/statica/internal/config"
	"github.com/statica-dev/statica/pkg/router"
)

func routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the compiled route table",
		Long: `Scan the pages directory, apply statica.json overrides and print
the resulting route table in discovery order.

Examples:
  statica routes
  statica routes --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes()
		},
	}

	return cmd
}

func runRoutes() error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	table, err := router.BuildTableWithOptions(cfg.PagesPath(), cfg.Router.Routes, router.BuildOptions{
		Extensions: cfg.Extensions(),
	})
	if err != nil {
		return err
	}

	for _, w := range table.Warnings() {
		warn(w)
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tPATH\tHASH\tPRERENDER\tLAZY\tCOMPONENT")
	for _, route := range table.Routes() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			route.Name,
			route.Path,
			route.Hash,
			yesNo(route.Prerender),
			yesNo(route.LazyLoading),
			route.Component,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println()
	info("%d routes", table.Len())
	fmt.Println()

	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
