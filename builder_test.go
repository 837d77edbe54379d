// FILE: lixenwraith/property/builder_test.go
package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder tests the builder pattern
func TestBuilder(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		d, err := NewBuilder[string](NewResourceCache()).
			WithFile("app.properties").
			WithKey("name").
			WithDecoder(String()).
			Build()
		require.NoError(t, err)
		assert.Equal(t, Memory, d.Policy())
		assert.Equal(t, KindFile, d.Source().Kind)
		assert.Equal(t, "", d.Default())
	})

	t.Run("SourceSelectors", func(t *testing.T) {
		rc := NewResourceCache()

		d, err := NewBuilder[string](rc).WithSystem().WithKey("k").WithDecoder(String()).Build()
		require.NoError(t, err)
		assert.Equal(t, Source{ID: SystemSourceID, Kind: KindSystem}, d.Source())

		d, err = NewBuilder[string](rc).WithEnv().WithKey("K").WithDecoder(String()).Build()
		require.NoError(t, err)
		assert.Equal(t, Source{ID: EnvSourceID, Kind: KindEnv}, d.Source())

		d, err = NewBuilder[string](rc).
			WithSource(Source{ID: "custom", Kind: KindSystem}).
			WithKey("k").
			WithDecoder(String()).
			WithPolicy(NoCache).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "system:custom", d.Source().String())
		assert.Equal(t, NoCache, d.Policy())
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, err := NewBuilder[int](nil).Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDeclaration)
		assert.Contains(t, err.Error(), "resource cache is required")
		assert.Contains(t, err.Error(), "decoder is required")
		assert.Contains(t, err.Error(), "source id is required")
	})

	t.Run("UnknownPolicy", func(t *testing.T) {
		_, err := NewBuilder[int](NewResourceCache()).
			WithFile("app.properties").
			WithDecoder(Int()).
			WithPolicy(CachePolicy(7)).
			Build()
		assert.ErrorIs(t, err, ErrInvalidDeclaration)
	})

	t.Run("NilValidatorIgnored", func(t *testing.T) {
		b := NewBuilder[int](NewResourceCache()).WithValidator(nil)
		assert.Empty(t, b.validators)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder[int](NewResourceCache()).MustBuild()
		})
		assert.Panics(t, func() {
			Define[int](nil, "app.properties", "k", 0, Int())
		})
		assert.Panics(t, func() {
			Define[int](NewResourceCache(), "app.properties", "k", 0, nil)
		})
	})

	t.Run("BuiltDeclarationsAreIndependent", func(t *testing.T) {
		rc, _ := newFileCache(t, map[string]string{"app.properties": "a=1\nb=2\n"})
		b := NewBuilder[int](rc).WithFile("app.properties").WithDecoder(Int())

		first, err := b.WithKey("a").Build()
		require.NoError(t, err)
		second, err := b.WithKey("b").Build()
		require.NoError(t, err)

		v, err := first.Get()
		require.NoError(t, err)
		assert.Equal(t, 1, v)
		v, err = second.Get()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
}
