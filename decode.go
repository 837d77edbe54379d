// FILE: lixenwraith/property/decode.go
package property

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag read by the struct decoder
const DefaultTagName = "property"

// StructDecoder decodes every entry below "prefix." into a struct.
// Keys are nested on dots, so "db.pool.size" under prefix "db" fills Pool.Size.
type StructDecoder[T any] struct {
	tagName   string
	delimiter string
}

// Struct builds a struct decoder using the "property" tag
func Struct[T any]() StructDecoder[T] {
	return StructDecoder[T]{tagName: DefaultTagName}
}

// WithTagName returns a copy reading the given struct tag
func (d StructDecoder[T]) WithTagName(tag string) StructDecoder[T] {
	d.tagName = tag
	return d
}

// WithDelimiter returns a copy splitting slice fields on delim
func (d StructDecoder[T]) WithDelimiter(delim string) StructDecoder[T] {
	d.delimiter = delim
	return d
}

func (d StructDecoder[T]) Decode(m FlatMapping, prefix string) (T, bool, error) {
	var target T

	base := strings.TrimSuffix(prefix, ".")
	nested := make(map[string]any)
	found := false
	for k, v := range m.All() {
		rel := k
		if base != "" {
			var ok bool
			if rel, ok = strings.CutPrefix(k, base+"."); !ok || rel == "" {
				continue
			}
		}
		setNestedValue(nested, rel, v)
		found = true
	}
	if !found {
		return target, false, nil
	}

	tag := d.tagName
	if tag == "" {
		tag = DefaultTagName
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &target,
		TagName:          tag,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(delimiterOrDefault(d.delimiter)),
	})
	if err != nil {
		return target, false, fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(nested); err != nil {
		return target, false, &DecodeError{Key: prefix, Type: fmt.Sprintf("%T", target), Err: err}
	}
	return target, true, nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook(delim string) mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNetIPHookFunc(),
		stringToURLHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		stringToSliceHookFunc(delim),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}

// stringToSliceHookFunc splits delimited strings for any slice target.
// Elements stay strings; weak typing converts them to the field's element type.
func stringToSliceHookFunc(delim string) mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice {
			return data, nil
		}

		raw, ok := data.(string)
		if !ok {
			return data, nil
		}
		if raw == "" {
			return []string{}, nil
		}
		return strings.Split(raw, delim), nil
	}
}
