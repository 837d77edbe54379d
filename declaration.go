// FILE: lixenwraith/property/declaration.go
package property

import (
	"fmt"
	"log/slog"
)

// Declaration binds a source, a key, a default value, a decoder and a cache policy.
// It is immutable after construction and safe for concurrent use.
type Declaration[T any] struct {
	source     Source
	key        string
	def        T
	decoder    Decoder[T]
	policy     CachePolicy
	cache      DeclarationCache[T]
	validators []ValidatorFunc[T]
	logger     *slog.Logger
}

// Get resolves the value, returning the default when the key is absent.
// On error the default is returned together with the error.
func (d *Declaration[T]) Get() (T, error) {
	v, ok, err := d.cache.Get(d.source, d.key, d.decoder)
	if err != nil {
		return d.def, err
	}
	if !ok {
		return d.def, nil
	}
	for _, validate := range d.validators {
		if err := validate(v); err != nil {
			return d.def, fmt.Errorf("validation failed for %s key %q: %w", d.source, d.key, err)
		}
	}
	return v, nil
}

// Value resolves the value on a best effort basis: errors are logged and the default returned
func (d *Declaration[T]) Value() T {
	v, err := d.Get()
	if err != nil {
		d.logger.Warn("property resolution failed, using default",
			"source", d.source.String(),
			"key", d.key,
			"error", err)
	}
	return v
}

// Key returns the property key (or key prefix for map decoders)
func (d *Declaration[T]) Key() string {
	return d.key
}

// SourceID returns the source identifier
func (d *Declaration[T]) SourceID() string {
	return d.source.ID
}

// Source returns the full source descriptor
func (d *Declaration[T]) Source() Source {
	return d.source
}

// Policy returns the cache policy
func (d *Declaration[T]) Policy() CachePolicy {
	return d.policy
}

// Default returns the configured default value
func (d *Declaration[T]) Default() T {
	return d.def
}

func (d *Declaration[T]) String() string {
	return fmt.Sprintf("%s#%s (%s)", d.source, d.key, d.policy)
}

// DefineNonCache declares a resource file property read on every Get.
// It panics on a nil cache or decoder, like MustBuild.
func DefineNonCache[T any](rc *ResourceCache, fileName, key string, def T, dec Decoder[T]) *Declaration[T] {
	return define(rc, FileSource(fileName), key, def, dec, NoCache)
}

// Define declares a resource file property read and decoded once
func Define[T any](rc *ResourceCache, fileName, key string, def T, dec Decoder[T]) *Declaration[T] {
	return define(rc, FileSource(fileName), key, def, dec, Memory)
}

// DefineUpdateCheck declares a resource file property re-decoded when the file changes
func DefineUpdateCheck[T any](rc *ResourceCache, fileName, key string, def T, dec Decoder[T]) *Declaration[T] {
	return define(rc, FileSource(fileName), key, def, dec, RefreshMemory)
}

// DefineSystem declares a system property, read once
func DefineSystem[T any](rc *ResourceCache, key string, def T, dec Decoder[T]) *Declaration[T] {
	return define(rc, Source{ID: SystemSourceID, Kind: KindSystem}, key, def, dec, Memory)
}

// DefineEnv declares an environment variable, read once
func DefineEnv[T any](rc *ResourceCache, key string, def T, dec Decoder[T]) *Declaration[T] {
	return define(rc, Source{ID: EnvSourceID, Kind: KindEnv}, key, def, dec, Memory)
}

func define[T any](rc *ResourceCache, src Source, key string, def T, dec Decoder[T], policy CachePolicy) *Declaration[T] {
	return NewBuilder[T](rc).
		WithSource(src).
		WithKey(key).
		WithDefault(def).
		WithDecoder(dec).
		WithPolicy(policy).
		MustBuild()
}
