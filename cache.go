// FILE: lixenwraith/property/cache.go
package property

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// CachePolicy selects how a declaration caches its decoded value
type CachePolicy int

const (
	// NoCache reads and decodes on every Get
	NoCache CachePolicy = iota
	// Memory decodes once, on first Get, from a source read once per process
	Memory
	// RefreshMemory re-decodes whenever the source's freshness token changes
	RefreshMemory
)

func (p CachePolicy) String() string {
	switch p {
	case NoCache:
		return "none"
	case Memory:
		return "memory"
	case RefreshMemory:
		return "refresh"
	default:
		return fmt.Sprintf("cache(%d)", int(p))
	}
}

// ParseCachePolicy converts a policy name back to a CachePolicy
func ParseCachePolicy(s string) (CachePolicy, error) {
	switch s {
	case "none", "no-cache":
		return NoCache, nil
	case "memory", "cache-forever", "":
		return Memory, nil
	case "refresh", "cache-on-change":
		return RefreshMemory, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownPolicy, s)
}

// DeclarationCache resolves one declaration's decoded value through the resource cache.
// The boolean result reports presence.
type DeclarationCache[T any] interface {
	Get(src Source, key string, dec Decoder[T]) (T, bool, error)
}

// NewDeclarationCache creates the cache implementing policy on top of rc.
// The returned cache belongs to a single declaration.
func NewDeclarationCache[T any](policy CachePolicy, rc *ResourceCache) (DeclarationCache[T], error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: nil resource cache", ErrInvalidDeclaration)
	}
	switch policy {
	case NoCache:
		return &noCache[T]{rc: rc}, nil
	case Memory:
		return &memoryCache[T]{rc: rc}, nil
	case RefreshMemory:
		return &refreshCache[T]{rc: rc}, nil
	}
	return nil, fmt.Errorf("%w: %w %v", ErrInvalidDeclaration, ErrUnknownPolicy, policy)
}

type memoEntry[T any] struct {
	value      T
	ok         bool
	generation uint64
}

type noCache[T any] struct {
	rc *ResourceCache
}

func (c *noCache[T]) Get(src Source, key string, dec Decoder[T]) (T, bool, error) {
	var zero T
	m, err := c.rc.Fetch(src)
	if err != nil {
		return zero, false, err
	}
	return dec.Decode(m, key)
}

// memoryCache decodes at most once successfully; absence is memoized too
type memoryCache[T any] struct {
	rc    *ResourceCache
	mutex sync.Mutex
	memo  atomic.Pointer[memoEntry[T]]
}

func (c *memoryCache[T]) Get(src Source, key string, dec Decoder[T]) (T, bool, error) {
	if m := c.memo.Load(); m != nil {
		return m.value, m.ok, nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if m := c.memo.Load(); m != nil {
		return m.value, m.ok, nil
	}

	var zero T
	fm, err := c.rc.FetchOnce(src)
	if err != nil {
		return zero, false, err
	}
	v, ok, err := dec.Decode(fm, key)
	if err != nil {
		return zero, false, err
	}
	c.memo.Store(&memoEntry[T]{value: v, ok: ok})
	return v, ok, nil
}

// refreshCache re-decodes when the source's freshness token changes.
// The resource cache signals a change only to the first consumer that observes it,
// so each declaration also tracks the generation it last decoded.
type refreshCache[T any] struct {
	rc    *ResourceCache
	mutex sync.Mutex
	memo  atomic.Pointer[memoEntry[T]]
}

func (c *refreshCache[T]) Get(src Source, key string, dec Decoder[T]) (T, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero T
	if _, _, err := c.rc.FetchIfChanged(src); err != nil {
		return zero, false, err
	}

	latest, generation, ok := c.rc.Latest(src)
	if !ok {
		return zero, false, nil
	}
	if m := c.memo.Load(); m != nil && m.generation == generation {
		return m.value, m.ok, nil
	}

	v, ok, err := dec.Decode(latest, key)
	if err != nil {
		return zero, false, err
	}
	// A newer absence replaces an older presence
	c.memo.Store(&memoEntry[T]{value: v, ok: ok, generation: generation})
	return v, ok, nil
}
