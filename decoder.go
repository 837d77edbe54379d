// FILE: lixenwraith/property/decoder.go
package property

import (
	"strconv"
	"strings"
)

// DefaultDelimiter separates list elements inside one property value
const DefaultDelimiter = ";"

// Decoder converts a flat mapping and a key (or key prefix) into a typed value.
// The boolean result reports presence; absence is never an error.
type Decoder[T any] interface {
	Decode(m FlatMapping, key string) (T, bool, error)
}

// ParseFunc converts one raw element to T
type ParseFunc[T any] func(string) (T, error)

func parseString(s string) (string, error) {
	return s, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func parseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}

// ScalarDecoder decodes the value stored at exactly key
type ScalarDecoder[T any] struct {
	typeName string
	parse    ParseFunc[T]
}

// Decode returns absent for a missing or empty value
func (d ScalarDecoder[T]) Decode(m FlatMapping, key string) (T, bool, error) {
	var zero T
	raw, ok := m.Lookup(key)
	if !ok || raw == "" {
		return zero, false, nil
	}
	v, err := d.parse(raw)
	if err != nil {
		return zero, false, &DecodeError{Key: key, Value: raw, Type: d.typeName, Err: err}
	}
	return v, true, nil
}

// ListDecoder splits the value at key on a delimiter.
// Trailing empty segments are kept: "a;b;" decodes to ["a", "b", ""].
type ListDecoder[T any] struct {
	typeName  string
	parse     ParseFunc[T]
	delimiter string
}

// WithDelimiter returns a copy splitting on delim
func (d ListDecoder[T]) WithDelimiter(delim string) ListDecoder[T] {
	d.delimiter = delim
	return d
}

// Delimiter reports the configured delimiter
func (d ListDecoder[T]) Delimiter() string {
	return delimiterOrDefault(d.delimiter)
}

func (d ListDecoder[T]) Decode(m FlatMapping, key string) ([]T, bool, error) {
	raw, ok := m.Lookup(key)
	if !ok || raw == "" {
		return nil, false, nil
	}
	list, err := splitParse(key, raw, d.Delimiter(), d.typeName, d.parse)
	if err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// MapDecoder collects every entry whose key starts with the given prefix,
// keyed by the full key.
type MapDecoder[T any] struct {
	typeName string
	parse    ParseFunc[T]
}

func (d MapDecoder[T]) Decode(m FlatMapping, prefix string) (map[string]T, bool, error) {
	result := make(map[string]T)
	for k, raw := range m.All() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		v, err := d.parse(raw)
		if err != nil {
			return nil, false, &DecodeError{Key: k, Value: raw, Type: d.typeName, Err: err}
		}
		result[k] = v
	}
	if len(result) == 0 {
		return nil, false, nil
	}
	return result, true, nil
}

// MapListDecoder is a MapDecoder whose values are split like a ListDecoder.
// An empty value decodes to an empty list.
type MapListDecoder[T any] struct {
	typeName  string
	parse     ParseFunc[T]
	delimiter string
}

// WithDelimiter returns a copy splitting on delim
func (d MapListDecoder[T]) WithDelimiter(delim string) MapListDecoder[T] {
	d.delimiter = delim
	return d
}

// Delimiter reports the configured delimiter
func (d MapListDecoder[T]) Delimiter() string {
	return delimiterOrDefault(d.delimiter)
}

func (d MapListDecoder[T]) Decode(m FlatMapping, prefix string) (map[string][]T, bool, error) {
	result := make(map[string][]T)
	for k, raw := range m.All() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if raw == "" {
			result[k] = []T{}
			continue
		}
		list, err := splitParse(k, raw, d.Delimiter(), d.typeName, d.parse)
		if err != nil {
			return nil, false, err
		}
		result[k] = list
	}
	if len(result) == 0 {
		return nil, false, nil
	}
	return result, true, nil
}

func splitParse[T any](key, raw, delim, typeName string, parse ParseFunc[T]) ([]T, error) {
	parts := strings.Split(raw, delim)
	list := make([]T, 0, len(parts))
	for _, part := range parts {
		v, err := parse(part)
		if err != nil {
			return nil, &DecodeError{Key: key, Value: part, Type: typeName, Err: err}
		}
		list = append(list, v)
	}
	return list, nil
}

func delimiterOrDefault(delim string) string {
	if delim == "" {
		return DefaultDelimiter
	}
	return delim
}

// String decodes a string value
func String() ScalarDecoder[string] {
	return ScalarDecoder[string]{typeName: "string", parse: parseString}
}

// Int decodes a base-10, 32-bit integer value
func Int() ScalarDecoder[int] {
	return ScalarDecoder[int]{typeName: "int", parse: parseInt}
}

// Bool decodes a boolean value as accepted by strconv.ParseBool
func Bool() ScalarDecoder[bool] {
	return ScalarDecoder[bool]{typeName: "bool", parse: parseBool}
}

// Scalar builds a decoder for a custom element type
func Scalar[T any](typeName string, parse ParseFunc[T]) ScalarDecoder[T] {
	return ScalarDecoder[T]{typeName: typeName, parse: parse}
}

// StringList decodes a delimited list of strings
func StringList() ListDecoder[string] {
	return ListDecoder[string]{typeName: "string", parse: parseString}
}

// IntList decodes a delimited list of integers
func IntList() ListDecoder[int] {
	return ListDecoder[int]{typeName: "int", parse: parseInt}
}

// BoolList decodes a delimited list of booleans
func BoolList() ListDecoder[bool] {
	return ListDecoder[bool]{typeName: "bool", parse: parseBool}
}

// List builds a list decoder for a custom element type
func List[T any](typeName string, parse ParseFunc[T]) ListDecoder[T] {
	return ListDecoder[T]{typeName: typeName, parse: parse}
}

// StringMap decodes prefix-matched entries as strings
func StringMap() MapDecoder[string] {
	return MapDecoder[string]{typeName: "string", parse: parseString}
}

// IntMap decodes prefix-matched entries as integers
func IntMap() MapDecoder[int] {
	return MapDecoder[int]{typeName: "int", parse: parseInt}
}

// BoolMap decodes prefix-matched entries as booleans
func BoolMap() MapDecoder[bool] {
	return MapDecoder[bool]{typeName: "bool", parse: parseBool}
}

// StringMapList decodes prefix-matched entries as lists of strings
func StringMapList() MapListDecoder[string] {
	return MapListDecoder[string]{typeName: "string", parse: parseString}
}

// IntMapList decodes prefix-matched entries as lists of integers
func IntMapList() MapListDecoder[int] {
	return MapListDecoder[int]{typeName: "int", parse: parseInt}
}

// BoolMapList decodes prefix-matched entries as lists of booleans
func BoolMapList() MapListDecoder[bool] {
	return MapListDecoder[bool]{typeName: "bool", parse: parseBool}
}
