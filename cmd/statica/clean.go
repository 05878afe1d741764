package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/statica-dev/statica/internal/config"
)

func cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromWorkingDir()
			if err != nil {
				return err
			}

			output := cfg.OutputPath()
			if _, err := os.Stat(output); os.IsNotExist(err) {
				info("Nothing to clean: %s does not exist", output)
				return nil
			}
			if err := os.RemoveAll(output); err != nil {
				return err
			}
			success("Removed %s", output)
			return nil
		},
	}

	return cmd
}
