// FILE: lixenwraith/property/resource.go
package property

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/singleflight"
)

// ResourcePolicy selects how the resource cache serves a source
type ResourcePolicy int

const (
	// ResourceNoCache reads the source on every request
	ResourceNoCache ResourcePolicy = iota
	// ResourceCacheForever reads each source once for the lifetime of the cache
	ResourceCacheForever
	// ResourceCacheOnChange re-reads a source only when its freshness token changes
	ResourceCacheOnChange
)

func (p ResourcePolicy) String() string {
	switch p {
	case ResourceNoCache:
		return "no-cache"
	case ResourceCacheForever:
		return "cache-forever"
	case ResourceCacheOnChange:
		return "cache-on-change"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

type resourceOptions struct {
	fs      billy.Filesystem
	charset Charset
	system  *SystemProperties
	environ func() []string
	logger  *slog.Logger
	readers map[SourceKind]Reader
}

// Option configures a ResourceCache
type Option func(*resourceOptions)

// WithFilesystem sets the resource root for file sources
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *resourceOptions) {
		o.fs = fs
	}
}

// WithRoot sets the resource root to a local directory
func WithRoot(dir string) Option {
	return func(o *resourceOptions) {
		o.fs = osfs.New(dir, osfs.WithBoundOS())
	}
}

// WithCharset sets the text encoding of resource files
func WithCharset(cs Charset) Option {
	return func(o *resourceOptions) {
		o.charset = cs
	}
}

// WithSystemProperties sets the store read by system sources
func WithSystemProperties(sp *SystemProperties) Option {
	return func(o *resourceOptions) {
		o.system = sp
	}
}

// WithEnviron sets the environment provider read by env sources
func WithEnviron(environ func() []string) Option {
	return func(o *resourceOptions) {
		o.environ = environ
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *resourceOptions) {
		o.logger = logger
	}
}

// WithReader replaces the reader for one source kind
func WithReader(kind SourceKind, r Reader) Option {
	return func(o *resourceOptions) {
		o.readers[kind] = r
	}
}

// observation is the last token seen for a cache-on-change source and the mapping read with it.
// generation increases by one on every observed change.
type observation struct {
	token      Token
	mapping    FlatMapping
	generation uint64
}

// ResourceCache is the process-wide cache of flat mappings shared by all declarations.
// Create one per process and pass it to every declaration; all methods are safe for concurrent use.
type ResourceCache struct {
	readers map[SourceKind]Reader
	logger  *slog.Logger

	// cache-forever
	group    singleflight.Group
	mutex    sync.RWMutex
	mappings map[Source]FlatMapping

	// cache-on-change
	obsMutex  sync.RWMutex
	observed  map[Source]observation
	lockMutex sync.Mutex
	locks     map[Source]*sync.Mutex
}

// NewResourceCache creates a resource cache.
// Defaults: resource root is the working directory, UTF-8 files,
// DefaultSystemProperties and os.Environ.
func NewResourceCache(opts ...Option) *ResourceCache {
	o := resourceOptions{
		charset: UTF8,
		environ: os.Environ,
		readers: make(map[SourceKind]Reader),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = osfs.New(".", osfs.WithBoundOS())
	}
	if o.system == nil {
		o.system = DefaultSystemProperties()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	readers := map[SourceKind]Reader{
		KindFile:   newFileReader(o.fs, o.charset),
		KindSystem: &systemReader{props: o.system},
		KindEnv:    &envReader{environ: o.environ},
	}
	for kind, r := range o.readers {
		readers[kind] = r
	}

	return &ResourceCache{
		readers:  readers,
		logger:   o.logger,
		mappings: make(map[Source]FlatMapping),
		observed: make(map[Source]observation),
		locks:    make(map[Source]*sync.Mutex),
	}
}

// Logger returns the cache's logger
func (c *ResourceCache) Logger() *slog.Logger {
	return c.logger
}

// Get dispatches to the method implementing policy.
// The boolean is false only for ResourceCacheOnChange when the source is unchanged.
func (c *ResourceCache) Get(policy ResourcePolicy, src Source) (FlatMapping, bool, error) {
	switch policy {
	case ResourceNoCache:
		m, err := c.Fetch(src)
		return m, err == nil, err
	case ResourceCacheForever:
		m, err := c.FetchOnce(src)
		return m, err == nil, err
	case ResourceCacheOnChange:
		return c.FetchIfChanged(src)
	}
	return FlatMapping{}, false, fmt.Errorf("%w: resource policy %v", ErrUnknownPolicy, policy)
}

// Fetch reads the source without caching
func (c *ResourceCache) Fetch(src Source) (FlatMapping, error) {
	r, ok := c.readers[src.Kind]
	if !ok {
		return FlatMapping{}, readError(src, fmt.Errorf("no reader for source kind %s", src.Kind))
	}
	m, err := r.Read(src.ID)
	if err != nil {
		return FlatMapping{}, readError(src, err)
	}
	c.logger.Debug("property resource read", "source", src.String(), "entries", m.Len())
	return m, nil
}

// FetchOnce returns the mapping read on first access to src.
// Concurrent first callers share a single read; a failed read is not cached.
func (c *ResourceCache) FetchOnce(src Source) (FlatMapping, error) {
	if m, ok := c.cached(src); ok {
		return m, nil
	}

	v, err, _ := c.group.Do(src.String(), func() (any, error) {
		// A flight finished between the fast path and Do
		if m, ok := c.cached(src); ok {
			return m, nil
		}
		m, err := c.Fetch(src)
		if err != nil {
			return nil, err
		}
		c.mutex.Lock()
		c.mappings[src] = m
		c.mutex.Unlock()
		return m, nil
	})
	if err != nil {
		return FlatMapping{}, err
	}
	return v.(FlatMapping), nil
}

func (c *ResourceCache) cached(src Source) (FlatMapping, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	m, ok := c.mappings[src]
	return m, ok
}

// FetchIfChanged reads src only if its freshness token differs from the last one observed.
// It returns (mapping, true, nil) on change and (zero, false, nil) when unchanged.
// The unchanged case deliberately carries no data; callers keep their own last result.
func (c *ResourceCache) FetchIfChanged(src Source) (FlatMapping, bool, error) {
	lock := c.sourceLock(src)
	lock.Lock()
	defer lock.Unlock()

	r, ok := c.readers[src.Kind]
	if !ok {
		return FlatMapping{}, false, tokenError(src, fmt.Errorf("no reader for source kind %s", src.Kind))
	}
	tr, ok := r.(TokenReader)
	if !ok {
		return FlatMapping{}, false, tokenError(src, fmt.Errorf("source kind %s has no freshness token", src.Kind))
	}
	token, err := tr.Token(src.ID)
	if err != nil {
		return FlatMapping{}, false, tokenError(src, err)
	}

	c.obsMutex.RLock()
	prev, seen := c.observed[src]
	c.obsMutex.RUnlock()
	if seen && prev.token == token {
		return FlatMapping{}, false, nil
	}

	m, err := c.Fetch(src)
	if err != nil {
		return FlatMapping{}, false, err
	}

	// Token is recorded only after a successful read so a failed read is retried
	c.obsMutex.Lock()
	c.observed[src] = observation{token: token, mapping: m, generation: prev.generation + 1}
	c.obsMutex.Unlock()

	c.logger.Debug("property resource changed", "source", src.String(), "first", !seen)
	return m, true, nil
}

// Latest returns the mapping stored with the last token observed for src and its generation.
// Consumers sharing a source compare generations to learn about changes another consumer observed first.
func (c *ResourceCache) Latest(src Source) (FlatMapping, uint64, bool) {
	c.obsMutex.RLock()
	defer c.obsMutex.RUnlock()
	obs, ok := c.observed[src]
	return obs.mapping, obs.generation, ok
}

func (c *ResourceCache) sourceLock(src Source) *sync.Mutex {
	c.lockMutex.Lock()
	defer c.lockMutex.Unlock()
	lock, ok := c.locks[src]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[src] = lock
	}
	return lock
}
