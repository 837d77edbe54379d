// FILE: lixenwraith/property/source.go
package property

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SourceKind selects which reader resolves a source
type SourceKind int

const (
	// KindFile reads a resource file below the resource root
	KindFile SourceKind = iota
	// KindSystem reads the process system properties
	KindSystem
	// KindEnv reads the process environment
	KindEnv
)

// Logical source IDs used by the system and environment shortcuts
const (
	SystemSourceID = "property/system"
	EnvSourceID    = "property/env"
)

func (k SourceKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSystem:
		return "system"
	case KindEnv:
		return "env"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseSourceKind converts a kind name back to a SourceKind
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(s) {
	case "file", "":
		return KindFile, nil
	case "system", "sys":
		return KindSystem, nil
	case "env", "environment":
		return KindEnv, nil
	}
	return 0, fmt.Errorf("unknown source kind %q", s)
}

// Source identifies one key-value origin
type Source struct {
	ID   string
	Kind SourceKind
}

// FileSource names a resource file relative to the resource root
func FileSource(id string) Source {
	return Source{ID: id, Kind: KindFile}
}

func (s Source) String() string {
	return s.Kind.String() + ":" + s.ID
}

// Reader turns a source ID into its current flat mapping
type Reader interface {
	Read(id string) (FlatMapping, error)
}

// TokenReader computes the freshness token of a source without a full read where possible
type TokenReader interface {
	Token(id string) (Token, error)
}

// Token is a comparable freshness fingerprint of a source.
// File sources fill ModTime and Size, in-memory sources fill Sum.
type Token struct {
	ModTime int64 // unix nanoseconds
	Size    int64
	Sum     uint64
}

// fingerprint hashes a mapping in sorted key order
func fingerprint(m FlatMapping) uint64 {
	h := xxhash.New()
	sep := []byte{0}
	for k, v := range m.All() {
		_, _ = h.WriteString(k)
		_, _ = h.Write(sep)
		_, _ = h.WriteString(v)
		_, _ = h.Write(sep)
	}
	return h.Sum64()
}

// envReader reads the process environment
type envReader struct {
	environ func() []string
}

func (r *envReader) Read(string) (FlatMapping, error) {
	return FlatMappingFromPairs(func(yield func(string, string) bool) {
		for _, kv := range r.environ() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}), nil
}

func (r *envReader) Token(id string) (Token, error) {
	m, err := r.Read(id)
	if err != nil {
		return Token{}, err
	}
	return Token{Sum: fingerprint(m)}, nil
}

// systemReader reads a SystemProperties store
type systemReader struct {
	props *SystemProperties
}

func (r *systemReader) Read(string) (FlatMapping, error) {
	return r.props.Snapshot(), nil
}

func (r *systemReader) Token(string) (Token, error) {
	return Token{Sum: fingerprint(r.props.Snapshot())}, nil
}
