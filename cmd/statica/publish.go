package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/statica-dev/statica/internal/config"
	"github.com/statica-dev/statica/internal/errors"
	"github.com/statica-dev/statica/pkg/publish"
)

func publishCmd() *cobra.Command {
	var (
		bucket string
		prefix string
		prune  bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the build output to an object store",
		Long: `Upload every file under the output directory to the configured
S3 bucket. Credentials come from the standard AWS environment
variables.

Examples:
  statica publish
  statica publish --bucket=my-site --prefix=production
  statica publish --prune`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(bucket, prefix, prune)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (default from statica.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix (default from statica.json)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete remote objects with no local counterpart")

	return cmd
}

func runPublish(bucket, prefix string, prune bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if bucket != "" {
		cfg.Publish.Bucket = bucket
	}
	if prefix != "" {
		cfg.Publish.Prefix = prefix
	}

	client := publish.NewClient(publish.ClientOptions{
		Region:   cfg.Publish.Region,
		Endpoint: cfg.Publish.Endpoint,
	})
	p, err := publish.New(client, publish.Options{
		Bucket: cfg.Publish.Bucket,
		Prefix: cfg.Publish.Prefix,
		Prune:  prune,
	})
	if err != nil {
		if stderrors.Is(err, publish.ErrNoBucket) {
			return errors.New("S501").
				WithSuggestion("Set publish.bucket in statica.json or pass --bucket").
				Wrap(err)
		}
		return err
	}

	info("Publishing %s to s3://%s...", cfg.Paths.Output, cfg.Publish.Bucket)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := p.Publish(ctx, cfg.OutputPath())
	if err != nil {
		if stderrors.Is(err, publish.ErrNoOutput) {
			return errors.New("S502").
				WithDetail("Output directory " + cfg.OutputPath() + " does not exist").
				WithSuggestion("Run statica build before publishing").
				Wrap(err)
		}
		if stderrors.Is(err, context.Canceled) {
			return err
		}
		return errors.New("S500").Wrap(err)
	}

	fmt.Println()
	success("Published in %s", summary.Duration.Round(time.Millisecond))
	info("Uploaded: %d objects (%s)", summary.Uploaded, formatBytes(summary.Bytes))
	if prune {
		info("Pruned:   %d stale objects", summary.Deleted)
	}
	fmt.Println()

	return nil
}
