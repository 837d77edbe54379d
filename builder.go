// File: lixenwraith/property/builder.go
package property

import (
	"errors"
	"fmt"
)

// ValidatorFunc checks a decoded, present value.
// It is not called for defaults.
type ValidatorFunc[T any] func(v T) error

// Builder provides a fluent interface for building declarations
type Builder[T any] struct {
	rc         *ResourceCache
	source     Source
	key        string
	def        T
	decoder    Decoder[T]
	policy     CachePolicy
	validators []ValidatorFunc[T]
}

// NewBuilder creates a declaration builder over rc.
// The default policy is Memory and the default source kind is KindFile.
func NewBuilder[T any](rc *ResourceCache) *Builder[T] {
	return &Builder[T]{
		rc:     rc,
		policy: Memory,
	}
}

// WithSource sets the full source descriptor
func (b *Builder[T]) WithSource(src Source) *Builder[T] {
	b.source = src
	return b
}

// WithFile sets a resource file source
func (b *Builder[T]) WithFile(fileName string) *Builder[T] {
	b.source = FileSource(fileName)
	return b
}

// WithSystem selects the system properties source
func (b *Builder[T]) WithSystem() *Builder[T] {
	b.source = Source{ID: SystemSourceID, Kind: KindSystem}
	return b
}

// WithEnv selects the environment source
func (b *Builder[T]) WithEnv() *Builder[T] {
	b.source = Source{ID: EnvSourceID, Kind: KindEnv}
	return b
}

// WithKey sets the property key, or the key prefix for map and struct decoders
func (b *Builder[T]) WithKey(key string) *Builder[T] {
	b.key = key
	return b
}

// WithDefault sets the value returned when the key is absent
func (b *Builder[T]) WithDefault(def T) *Builder[T] {
	b.def = def
	return b
}

// WithDecoder sets the value decoder
func (b *Builder[T]) WithDecoder(dec Decoder[T]) *Builder[T] {
	b.decoder = dec
	return b
}

// WithPolicy sets the cache policy
func (b *Builder[T]) WithPolicy(policy CachePolicy) *Builder[T] {
	b.policy = policy
	return b
}

// WithValidator adds a validation function applied to present values
func (b *Builder[T]) WithValidator(fn ValidatorFunc[T]) *Builder[T] {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build validates the inputs and creates the declaration
func (b *Builder[T]) Build() (*Declaration[T], error) {
	var errs []error
	if b.rc == nil {
		errs = append(errs, errors.New("resource cache is required"))
	}
	if b.decoder == nil {
		errs = append(errs, errors.New("decoder is required"))
	}
	if b.source.ID == "" {
		errs = append(errs, errors.New("source id is required"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeclaration, errors.Join(errs...))
	}

	cache, err := NewDeclarationCache[T](b.policy, b.rc)
	if err != nil {
		return nil, err
	}

	return &Declaration[T]{
		source:     b.source,
		key:        b.key,
		def:        b.def,
		decoder:    b.decoder,
		policy:     b.policy,
		cache:      cache,
		validators: append([]ValidatorFunc[T](nil), b.validators...),
		logger:     b.rc.Logger(),
	}, nil
}

// MustBuild is like Build but panics on error
func (b *Builder[T]) MustBuild() *Declaration[T] {
	d, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("property declaration build failed: %v", err))
	}
	return d
}
