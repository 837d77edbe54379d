// File: lixenwraith/property/helper.go
package property

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// flattenMap converts a parsed document into flat dot-notation entries.
// Scalar arrays are joined with DefaultDelimiter; arrays holding tables are indexed ("servers.0.host").
func flattenMap(nested map[string]any, prefix string) map[string]string {
	flat := make(map[string]string)
	flattenInto(flat, nested, prefix)
	return flat
}

func flattenInto(flat map[string]string, value any, path string) {
	switch v := value.(type) {
	case map[string]any:
		for key, sub := range v {
			flattenInto(flat, sub, joinPath(path, key))
		}
	case map[any]any:
		for key, sub := range v {
			flattenInto(flat, sub, joinPath(path, fmt.Sprint(key)))
		}
	case []map[string]any:
		for i, sub := range v {
			flattenInto(flat, sub, joinPath(path, strconv.Itoa(i)))
		}
	case []any:
		if !containsTables(v) {
			flat[path] = stringify(v)
			return
		}
		for i, sub := range v {
			flattenInto(flat, sub, joinPath(path, strconv.Itoa(i)))
		}
	default:
		flat[path] = stringify(v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func containsTables(values []any) bool {
	for _, v := range values {
		switch v.(type) {
		case map[string]any, map[any]any:
			return true
		}
	}
	return false
}

// stringify renders a parsed scalar (or scalar array) as a raw property value
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = stringify(elem)
		}
		return strings.Join(parts, DefaultDelimiter)
	default:
		return fmt.Sprint(v)
	}
}

// setNestedValue sets a value in a nested map using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		next, exists := current[segment]
		if nextMap, isMap := next.(map[string]any); exists && isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	lastSegment := segments[len(segments)-1]
	if _, isMap := current[lastSegment].(map[string]any); isMap {
		// A deeper key already claimed this segment as a table
		return
	}
	current[lastSegment] = value
}
