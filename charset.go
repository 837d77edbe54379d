// FILE: lixenwraith/property/charset.go
package property

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset is a named text encoding used to read resource files.
// Decoding and encoding are strict: malformed or unmappable input fails instead of being replaced.
type Charset struct {
	name   string
	enc    encoding.Encoding
	isUTF8 bool
}

var (
	// UTF8 is the default charset for resource files
	UTF8 = Charset{name: "UTF-8", enc: unicode.UTF8, isUTF8: true}
	// ShiftJIS covers Shift_JIS
	ShiftJIS = Charset{name: "Shift_JIS", enc: japanese.ShiftJIS}
	// Windows31J covers Windows-31J (MS932), a superset handled by the same table
	Windows31J = Charset{name: "Windows-31J", enc: japanese.ShiftJIS}
	// EUCJP covers EUC-JP
	EUCJP = Charset{name: "EUC-JP", enc: japanese.EUCJP}
)

var charsets = []Charset{UTF8, ShiftJIS, Windows31J, EUCJP}

// LookupCharset finds a charset by its name (case-insensitive)
func LookupCharset(name string) (Charset, error) {
	for _, cs := range charsets {
		if strings.EqualFold(cs.name, name) {
			return cs, nil
		}
	}
	return Charset{}, fmt.Errorf("%w: %s", ErrUnsupportedCharset, name)
}

// Charsets lists the names of all supported charsets
func Charsets() []string {
	names := make([]string, 0, len(charsets))
	for _, cs := range charsets {
		names = append(names, cs.name)
	}
	slices.Sort(names)
	return names
}

// Name returns the canonical charset name
func (cs Charset) Name() string {
	return cs.name
}

func (cs Charset) String() string {
	return cs.name
}

// Decode converts data in this charset to a Go string
func (cs Charset) Decode(data []byte) (string, error) {
	if cs.enc == nil {
		return "", fmt.Errorf("%w: zero charset", ErrUnsupportedCharset)
	}
	if cs.isUTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("malformed %s input", cs.name)
		}
		out, _, err := transform.Bytes(unicode.BOMOverride(cs.enc.NewDecoder()), data)
		if err != nil {
			return "", fmt.Errorf("malformed %s input: %w", cs.name, err)
		}
		return string(out), nil
	}

	out, err := cs.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("malformed %s input: %w", cs.name, err)
	}
	// x/text substitutes U+FFFD for invalid sequences; none of the legacy
	// charsets can encode U+FFFD, so its presence means malformed input.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("malformed %s input", cs.name)
	}
	return string(out), nil
}

// Encode converts s into this charset
func (cs Charset) Encode(s string) ([]byte, error) {
	if cs.enc == nil {
		return nil, fmt.Errorf("%w: zero charset", ErrUnsupportedCharset)
	}
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("malformed string for %s", cs.name)
	}
	if cs.isUTF8 {
		return []byte(s), nil
	}
	out, err := cs.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("unmappable character for %s: %w", cs.name, err)
	}
	return out, nil
}
