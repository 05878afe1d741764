// Package publish uploads a build output directory to an S3-compatible
// object store.
//
// Every file under the output root becomes one object, keyed by its relative
// path under an optional prefix, with a content type derived from its
// extension. With pruning enabled, remote objects under the prefix that no
// longer exist locally are deleted after the upload, so the bucket converges
// on exactly the last build:
//
//	client := publish.NewClient(publish.ClientOptions{Region: "us-east-1"})
//	p, err := publish.New(client, publish.Options{
//	    Bucket: "my-site",
//	    Prefix: "production",
//	    Prune:  true,
//	})
//	summary, err := p.Publish(ctx, "dist")
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
)

// ErrNoOutput is returned when the directory to publish does not exist.
var ErrNoOutput = errors.New("publish: output directory missing")

// ErrNoBucket is returned when no destination bucket is configured.
var ErrNoBucket = errors.New("publish: no bucket configured")

// Client is the slice of the S3 API the publisher drives. *s3.Client
// satisfies it; tests substitute fakes.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	// Region is the bucket's region. Empty selects us-east-1.
	Region string

	// Endpoint overrides the store endpoint, for MinIO and other
	// S3-compatible stores. Forces path-style addressing.
	Endpoint string
}

// NewClient builds an S3 client with credentials taken from the environment
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, optional AWS_SESSION_TOKEN).
func NewClient(opts ClientOptions) Client {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	options := s3.Options{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "statica environment",
			}, nil
		}),
	}
	if opts.Endpoint != "" {
		options.BaseEndpoint = aws.String(opts.Endpoint)
		options.UsePathStyle = true
	}
	return s3.New(options)
}

// Options configures a Publisher.
type Options struct {
	// Bucket is the destination bucket. Required.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Prune deletes remote objects under Prefix that have no local
	// counterpart after the upload.
	Prune bool

	// Concurrency bounds parallel uploads. Zero selects the machine's CPU
	// count.
	Concurrency int

	// Logger receives per-object logs. Nil selects slog.Default().
	Logger *slog.Logger
}

// Publisher uploads build output to an object store.
type Publisher struct {
	client  Client
	options Options
	logger  *slog.Logger
}

// New creates a Publisher.
func New(client Client, options Options) (*Publisher, error) {
	if options.Bucket == "" {
		return nil, ErrNoBucket
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, options: options, logger: logger}, nil
}

// Summary reports what a publish run did.
type Summary struct {
	// Uploaded is the number of objects written.
	Uploaded int

	// Deleted is the number of stale objects pruned.
	Deleted int

	// Bytes is the total upload size.
	Bytes int64

	// Duration is how long the run took.
	Duration time.Duration
}

// Publish uploads every file under dir. Uploads run concurrently; pruning,
// when enabled, runs after all uploads have landed so a stale listing can
// never delete an object that is about to be rewritten.
func (p *Publisher) Publish(ctx context.Context, dir string) (*Summary, error) {
	start := time.Now()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoOutput, dir)
	}

	files, err := p.collect(dir)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	keep := make(map[string]bool, len(files))
	for _, rel := range files {
		keep[p.key(rel)] = true
	}

	var uploaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())
	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			n, err := p.upload(gctx, dir, rel)
			if err != nil {
				return err
			}
			uploaded.Add(n)
			p.logger.Debug("uploaded object",
				slog.String("key", p.key(rel)),
				slog.Int64("bytes", n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Uploaded: len(files),
		Bytes:    uploaded.Load(),
	}

	if p.options.Prune {
		deleted, err := p.prune(ctx, keep)
		if err != nil {
			return nil, err
		}
		summary.Deleted = deleted
	}

	summary.Duration = time.Since(start)
	p.logger.Info("publish finished",
		slog.String("bucket", p.options.Bucket),
		slog.Int("uploaded", summary.Uploaded),
		slog.Int("deleted", summary.Deleted),
		slog.Int64("bytes", summary.Bytes),
		slog.Duration("duration", summary.Duration))

	return summary, nil
}

// collect lists the files to upload, as sorted slash-relative paths.
// Dotfiles and dot-directories are skipped.
func (p *Publisher) collect(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if pth != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, pth)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (p *Publisher) upload(ctx context.Context, dir, rel string) (int64, error) {
	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", rel, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.options.Bucket),
		Key:         aws.String(p.key(rel)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeFor(rel)),
	})
	if err != nil {
		return 0, fmt.Errorf("uploading %s: %w", rel, err)
	}
	return int64(len(body)), nil
}

// prune deletes every remote object under the prefix whose key is not in
// keep.
func (p *Publisher) prune(ctx context.Context, keep map[string]bool) (int, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(p.options.Bucket)}
	if p.options.Prefix != "" {
		input.Prefix = aws.String(strings.TrimSuffix(p.options.Prefix, "/") + "/")
	}

	deleted := 0
	paginator := s3.NewListObjectsV2Paginator(p.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("listing objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || keep[*obj.Key] {
				continue
			}
			if _, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(p.options.Bucket),
				Key:    obj.Key,
			}); err != nil {
				return deleted, fmt.Errorf("deleting %s: %w", *obj.Key, err)
			}
			p.logger.Debug("pruned stale object", slog.String("key", *obj.Key))
			deleted++
		}
	}
	return deleted, nil
}

// key maps a relative file path to its object key.
func (p *Publisher) key(rel string) string {
	if p.options.Prefix == "" {
		return rel
	}
	return strings.TrimSuffix(p.options.Prefix, "/") + "/" + rel
}

func (p *Publisher) concurrency() int {
	if p.options.Concurrency > 0 {
		return p.options.Concurrency
	}
	return runtime.NumCPU()
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
