package prerender

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// ErrNotPrerendered reports that no prerendered content is available for a
// path. Callers fall back to live rendering; this is an expected condition,
// not a failure.
var ErrNotPrerendered = errors.New("prerender: no prerendered content")

// Default cache sizing. Both are per-engine, not global.
const (
	DefaultCapacity = 1024
	DefaultTTL      = 15 * time.Minute
)

// Entry is one cached prerendered document.
type Entry struct {
	// Body is the prerendered HTML.
	Body []byte

	// ETag is a strong validator derived from Body, ready for an ETag
	// header (includes quotes).
	ETag string

	// ReadAt is when the backing artifact was read.
	ReadAt time.Time
}

// Store reads prerendered HTML artifacts. Implementations must be safe for
// concurrent use.
type Store interface {
	// ReadHTML returns the artifact's contents. A missing artifact is
	// reported with an error satisfying errors.Is(err, fs.ErrNotExist).
	ReadHTML(ctx context.Context, path string) ([]byte, error)
}

// FSStore reads artifacts from the local filesystem.
type FSStore struct{}

// ReadHTML implements Store.
func (FSStore) ReadHTML(_ context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("read artifact: %w", fs.ErrNotExist)
	}
	return os.ReadFile(path)
}

// Options configures a Cache.
type Options struct {
	// Capacity bounds the number of cached entries. Values <= 0 select
	// DefaultCapacity.
	Capacity int

	// TTL is each entry's lifetime, measured from insertion. A cache hit
	// refreshes recency but never the lifetime. Values <= 0 select
	// DefaultTTL.
	TTL time.Duration

	// Store reads backing artifacts on miss. Nil selects FSStore.
	Store Store

	// Logger receives miss and degradation logs. Nil selects slog.Default().
	Logger *slog.Logger

	// Metrics, when set, receives cache counters.
	Metrics *Metrics

	// Now supplies entry timestamps. Nil selects time.Now.
	Now func() time.Time
}

// Cache is a bounded read-through cache over prerendered HTML artifacts,
// keyed by request path.
//
// Entries are evicted least-recently-used when the capacity is exceeded and
// expire a fixed TTL after insertion. Concurrent misses for the same key are
// coalesced into a single backing read; misses for different keys proceed
// independently. Safe for concurrent use.
type Cache struct {
	lru     *expirable.LRU[string, *Entry]
	group   singleflight.Group
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// New creates a Cache.
func New(opts Options) *Cache {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Store == nil {
		opts.Store = FSStore{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache{
		store:   opts.Store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	c.lru = expirable.NewLRU[string, *Entry](opts.Capacity, c.onEvict, opts.TTL)
	return c
}

func (c *Cache) onEvict(key string, _ *Entry) {
	c.metrics.recordEviction()
}

// Get returns the prerendered document for key, reading artifactPath through
// the store on a cold key. A missing or unreadable artifact degrades to
// ErrNotPrerendered.
func (c *Cache) Get(ctx context.Context, key, artifactPath string) (*Entry, error) {
	if entry, ok := c.lru.Get(key); ok {
		c.metrics.recordLookup(lookupHit)
		return entry, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// A previous flight may have filled the entry between our miss and
		// joining the group.
		if entry, ok := c.lru.Get(key); ok {
			return entry, nil
		}

		c.metrics.recordArtifactRead()
		body, err := c.store.ReadHTML(ctx, artifactPath)
		if err != nil {
			return nil, err
		}

		entry := newEntry(body, c.now())
		c.lru.Add(key, entry)
		c.metrics.setEntries(c.lru.Len())
		return entry, nil
	})
	if err != nil {
		c.metrics.recordLookup(lookupError)
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("prerendered artifact missing, falling back to live render",
				slog.String("path", key), slog.String("artifact", artifactPath))
		} else {
			c.logger.Warn("prerendered artifact unreadable, falling back to live render",
				slog.String("path", key), slog.String("artifact", artifactPath),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrNotPrerendered, key, err)
	}

	c.metrics.recordLookup(lookupMiss)
	if shared {
		c.metrics.recordCoalesced()
	}
	return v.(*Entry), nil
}

// Invalidate drops the entry for key, if present.
func (c *Cache) Invalidate(key string) bool {
	removed := c.lru.Remove(key)
	c.metrics.setEntries(c.lru.Len())
	return removed
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
	c.metrics.setEntries(0)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// newEntry builds an Entry with its content validator.
func newEntry(body []byte, readAt time.Time) *Entry {
	sum := sha256.Sum256(body)
	return &Entry{
		Body:   body,
		ETag:   `"` + hex.EncodeToString(sum[:8]) + `"`,
		ReadAt: readAt,
	}
}
