// FILE: lixenwraith/property/decoder_test.go
package property

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mapping(kv ...string) FlatMapping {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return NewFlatMapping(m)
}

func TestScalarDecoders(t *testing.T) {
	m := mapping(
		"name", "service",
		"port", "8080",
		"negative", "-42",
		"enabled", "true",
		"off", "FALSE",
		"empty", "",
		"bad.int", "80a",
		"big.int", "2147483648",
		"bad.bool", "yes",
	)

	t.Run("String", func(t *testing.T) {
		v, ok, err := String().Decode(m, "name")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "service", v)
	})

	t.Run("Int", func(t *testing.T) {
		v, ok, err := Int().Decode(m, "port")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 8080, v)

		v, ok, err = Int().Decode(m, "negative")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, -42, v)
	})

	t.Run("Bool", func(t *testing.T) {
		v, ok, err := Bool().Decode(m, "enabled")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, v)

		v, ok, err = Bool().Decode(m, "off")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, v)
	})

	t.Run("EmptyIsAbsent", func(t *testing.T) {
		_, ok, err := String().Decode(m, "empty")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = Int().Decode(m, "empty")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MissingIsAbsent", func(t *testing.T) {
		_, ok, err := Bool().Decode(m, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ParseFailures", func(t *testing.T) {
		for _, key := range []string{"bad.int", "big.int"} {
			_, ok, err := Int().Decode(m, key)
			require.Error(t, err, key)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrDecode)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, key, decodeErr.Key)
			assert.Equal(t, "int", decodeErr.Type)
		}

		_, _, err := Bool().Decode(m, "bad.bool")
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("CustomScalar", func(t *testing.T) {
		upper := Scalar("upper", func(s string) (string, error) {
			return strings.ToUpper(s), nil
		})
		v, ok, err := upper.Decode(m, "name")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "SERVICE", v)
	})
}

func TestListDecoders(t *testing.T) {
	t.Run("TrailingEmptyPreserved", func(t *testing.T) {
		v, ok, err := StringList().Decode(mapping("k", "a;b;"), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "b", ""}, v)
	})

	t.Run("EmptyIsAbsent", func(t *testing.T) {
		v, ok, err := StringList().Decode(mapping("k", ""), "k")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("SingleElement", func(t *testing.T) {
		v, ok, err := StringList().Decode(mapping("k", "only"), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"only"}, v)
	})

	t.Run("IntList", func(t *testing.T) {
		v, ok, err := IntList().Decode(mapping("k", "1;2;3"), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int{1, 2, 3}, v)
	})

	t.Run("IntListTrailingDelimiterFails", func(t *testing.T) {
		_, _, err := IntList().Decode(mapping("k", "1;2;"), "k")
		require.Error(t, err)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "", decodeErr.Value)
	})

	t.Run("BoolList", func(t *testing.T) {
		v, ok, err := BoolList().Decode(mapping("k", "true;false;1"), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []bool{true, false, true}, v)
	})

	t.Run("CustomDelimiter", func(t *testing.T) {
		dec := StringList().WithDelimiter(",")
		v, ok, err := dec.Decode(mapping("k", "a,b;c"), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "b;c"}, v)

		// The receiver is unchanged
		assert.Equal(t, DefaultDelimiter, StringList().Delimiter())
		assert.Equal(t, ",", dec.Delimiter())
	})

	t.Run("EmptyDelimiterFallsBack", func(t *testing.T) {
		v, _, err := StringList().WithDelimiter("").Decode(mapping("k", "a;b"), "k")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	})
}

func TestMapDecoders(t *testing.T) {
	t.Run("PrefixSelection", func(t *testing.T) {
		m := mapping("p.x", "1", "p.y", "2", "q.z", "3")
		v, ok, err := StringMap().Decode(m, "p")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]string{"p.x": "1", "p.y": "2"}, v)
	})

	t.Run("FullKeysKept", func(t *testing.T) {
		m := mapping("limits.cpu", "2", "limits.memory", "512")
		v, ok, err := IntMap().Decode(m, "limits.")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]int{"limits.cpu": 2, "limits.memory": 512}, v)
	})

	t.Run("NoMatchIsAbsent", func(t *testing.T) {
		v, ok, err := BoolMap().Decode(mapping("a", "true"), "b")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("EmptyStringValueKept", func(t *testing.T) {
		v, ok, err := StringMap().Decode(mapping("p.x", ""), "p")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]string{"p.x": ""}, v)
	})

	t.Run("IntMapParseFailure", func(t *testing.T) {
		_, _, err := IntMap().Decode(mapping("p.x", "one"), "p")
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("MapOfIntLists", func(t *testing.T) {
		m := mapping("p.x", "1;2", "p.y", "")
		v, ok, err := IntMapList().Decode(m, "p")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string][]int{"p.x": {1, 2}, "p.y": {}}, v)
	})

	t.Run("DynamicWidthTable", func(t *testing.T) {
		m := mapping("foo.0", "a;b", "foo.1", "c;d", "bar", "e")
		v, ok, err := StringMapList().Decode(m, "foo.")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string][]string{"foo.0": {"a", "b"}, "foo.1": {"c", "d"}}, v)
	})

	t.Run("MapListDelimiter", func(t *testing.T) {
		v, _, err := BoolMapList().WithDelimiter("|").Decode(mapping("f.a", "true|false"), "f")
		require.NoError(t, err)
		assert.Equal(t, map[string][]bool{"f.a": {true, false}}, v)
	})
}

// Property: an absent or empty key decodes to absent for every decoder
func TestAbsentKeyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.MapOf(
			rapid.StringMatching(`[a-z]{1,6}(\.[a-z0-9]{1,4}){0,2}`),
			rapid.StringMatching(`[a-z0-9;]{0,8}`),
		).Draw(t, "entries")
		key := rapid.StringMatching(`[A-Z]{1,6}`).Draw(t, "key")

		if rapid.Bool().Draw(t, "presentButEmpty") {
			entries[key] = ""
		}
		m := NewFlatMapping(entries)

		checks := map[string]func() (bool, error){
			"String":     func() (bool, error) { _, ok, err := String().Decode(m, key); return ok, err },
			"Int":        func() (bool, error) { _, ok, err := Int().Decode(m, key); return ok, err },
			"Bool":       func() (bool, error) { _, ok, err := Bool().Decode(m, key); return ok, err },
			"StringList": func() (bool, error) { _, ok, err := StringList().Decode(m, key); return ok, err },
			"IntList":    func() (bool, error) { _, ok, err := IntList().Decode(m, key); return ok, err },
			"BoolList":   func() (bool, error) { _, ok, err := BoolList().Decode(m, key); return ok, err },
		}
		for name, check := range checks {
			ok, err := check()
			if err != nil || ok {
				t.Fatalf("%s: expected absent, got ok=%v err=%v", name, ok, err)
			}
		}

		// Upper-case prefixes never match the lower-case generated keys, except the injected empty one
		delete(entries, key)
		m = NewFlatMapping(entries)
		if _, ok, err := StringMap().Decode(m, key); ok || err != nil {
			t.Fatalf("StringMap: expected absent, got ok=%v err=%v", ok, err)
		}
		if _, ok, err := IntMapList().Decode(m, key); ok || err != nil {
			t.Fatalf("IntMapList: expected absent, got ok=%v err=%v", ok, err)
		}
	})
}

// Property: splitting preserves every segment, so joining restores the raw value
func TestListRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[a-z;]{1,20}`).Draw(t, "raw")
		v, ok, err := StringList().Decode(mapping("k", raw), "k")
		if err != nil || !ok {
			t.Fatalf("unexpected result ok=%v err=%v", ok, err)
		}
		if got := strings.Join(v, ";"); got != raw {
			t.Fatalf("join mismatch: %q != %q", got, raw)
		}
		if len(v) != strings.Count(raw, ";")+1 {
			t.Fatalf("expected %d segments, got %d", strings.Count(raw, ";")+1, len(v))
		}
	})
}

// Property: a prefix map contains exactly the keys starting with the prefix
func TestPrefixSelectionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.MapOf(
			rapid.StringMatching(`[ab]{1,3}\.[a-z]{1,3}`),
			rapid.StringMatching(`[a-z]{0,4}`),
		).Draw(t, "entries")
		prefix := rapid.StringMatching(`[ab]{1,2}`).Draw(t, "prefix")

		v, ok, err := StringMap().Decode(NewFlatMapping(entries), prefix)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := 0
		for k, val := range entries {
			if !strings.HasPrefix(k, prefix) {
				continue
			}
			expected++
			if v[k] != val {
				t.Fatalf("key %q: expected %q, got %q", k, val, v[k])
			}
		}
		if ok != (expected > 0) || len(v) != expected {
			t.Fatalf("expected %d entries (present=%v), got %d (present=%v)", expected, expected > 0, len(v), ok)
		}
	})
}
