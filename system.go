// FILE: lixenwraith/property/system.go
package property

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// SystemProperties is a thread-safe, process-level key-value store
// playing the role of runtime system properties.
type SystemProperties struct {
	values map[string]string
	mutex  sync.RWMutex
}

// NewSystemProperties creates an empty store
func NewSystemProperties() *SystemProperties {
	return &SystemProperties{
		values: make(map[string]string),
	}
}

// DefaultSystemProperties creates a store seeded with runtime facts
func DefaultSystemProperties() *SystemProperties {
	sp := NewSystemProperties()
	sp.Set("os.name", runtime.GOOS)
	sp.Set("os.arch", runtime.GOARCH)
	sp.Set("go.version", runtime.Version())
	sp.Set("file.separator", string(filepath.Separator))
	sp.Set("path.separator", string(filepath.ListSeparator))
	if runtime.GOOS == "windows" {
		sp.Set("line.separator", "\r\n")
	} else {
		sp.Set("line.separator", "\n")
	}
	if dir, err := os.Getwd(); err == nil {
		sp.Set("user.dir", dir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		sp.Set("user.home", home)
	}
	return sp
}

// Set stores a value, replacing any previous value for key
func (sp *SystemProperties) Set(key, value string) {
	sp.mutex.Lock()
	defer sp.mutex.Unlock()
	sp.values[key] = value
}

// Get returns the value for key
func (sp *SystemProperties) Get(key string) (string, bool) {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()
	v, ok := sp.values[key]
	return v, ok
}

// Delete removes key
func (sp *SystemProperties) Delete(key string) {
	sp.mutex.Lock()
	defer sp.mutex.Unlock()
	delete(sp.values, key)
}

// Snapshot returns the current contents as an immutable mapping
func (sp *SystemProperties) Snapshot() FlatMapping {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()
	return NewFlatMapping(sp.values)
}

// LoadArgs sets properties from command-line style arguments.
// Accepted forms: "-Dkey=value", "--key=value", "--key value" and "--flag" (stored as "true").
// Other arguments are skipped. Returns the number of properties set.
func (sp *SystemProperties) LoadArgs(args []string) (int, error) {
	parsed, err := parseArgs(args)
	if err != nil {
		return 0, err
	}

	sp.mutex.Lock()
	defer sp.mutex.Unlock()
	for _, kv := range parsed {
		sp.values[kv[0]] = kv[1]
	}
	return len(parsed), nil
}

// parseArgs processes command-line arguments into ordered key/value pairs
func parseArgs(args []string) ([][2]string, error) {
	var result [][2]string
	i := 0
	for i < len(args) {
		arg := args[i]

		if strings.HasPrefix(arg, "-D") {
			key, value, _ := strings.Cut(strings.TrimPrefix(arg, "-D"), "=")
			if key == "" {
				return nil, fmt.Errorf("empty property name in argument %q", arg)
			}
			result = append(result, [2]string{key, value})
			i++
			continue
		}

		if !strings.HasPrefix(arg, "--") {
			i++ // Skip non-flag arguments
			continue
		}

		keyPath := strings.TrimPrefix(arg, "--")
		if keyPath == "" {
			i++ // Skip "--" argument
			continue
		}

		if key, value, ok := strings.Cut(keyPath, "="); ok {
			result = append(result, [2]string{key, value})
			i++
			continue
		}

		// Boolean flag if no value follows
		if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
			result = append(result, [2]string{keyPath, "true"})
			i++
		} else {
			result = append(result, [2]string{keyPath, args[i+1]})
			i += 2
		}
	}
	return result, nil
}
