// FILE: lixenwraith/property/charset_test.go
package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCharset(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf-8", "Shift_JIS", "windows-31j", "EUC-JP"} {
		cs, err := LookupCharset(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, cs.Name())
	}

	_, err := LookupCharset("EBCDIC")
	assert.ErrorIs(t, err, ErrUnsupportedCharset)

	assert.Contains(t, Charsets(), "UTF-8")
	assert.Contains(t, Charsets(), "Shift_JIS")
}

func TestCharsetDecode(t *testing.T) {
	t.Run("UTF8", func(t *testing.T) {
		s, err := UTF8.Decode([]byte("key=値"))
		require.NoError(t, err)
		assert.Equal(t, "key=値", s)
	})

	t.Run("UTF8StripsBOM", func(t *testing.T) {
		s, err := UTF8.Decode(append([]byte{0xEF, 0xBB, 0xBF}, "a=1"...))
		require.NoError(t, err)
		assert.Equal(t, "a=1", s)
	})

	t.Run("UTF8KeepsInnerBOM", func(t *testing.T) {
		s, err := UTF8.Decode([]byte("a=\uFEFF1"))
		require.NoError(t, err)
		assert.Equal(t, "a=\uFEFF1", s)
	})

	t.Run("UTF8Malformed", func(t *testing.T) {
		_, err := UTF8.Decode([]byte{'a', '=', 0xff, 0xfe})
		assert.Error(t, err)
	})

	t.Run("ShiftJISRoundTrip", func(t *testing.T) {
		encoded, err := ShiftJIS.Encode("名前=テスト")
		require.NoError(t, err)
		assert.NotEqual(t, []byte("名前=テスト"), encoded)

		decoded, err := ShiftJIS.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, "名前=テスト", decoded)
	})

	t.Run("ShiftJISMalformed", func(t *testing.T) {
		// 0x81 is a lead byte that needs a trail byte
		_, err := ShiftJIS.Decode([]byte{'a', '=', 0x81})
		assert.Error(t, err)
	})

	t.Run("Unmappable", func(t *testing.T) {
		_, err := ShiftJIS.Encode("emoji=😀")
		assert.Error(t, err)
	})

	t.Run("ZeroCharset", func(t *testing.T) {
		var cs Charset
		_, err := cs.Decode([]byte("a"))
		assert.ErrorIs(t, err, ErrUnsupportedCharset)
	})
}
