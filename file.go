// FILE: lixenwraith/property/file.go
package property

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// File formats understood by the file reader
const (
	FormatProperties = "properties"
	FormatTOML       = "toml"
	FormatYAML       = "yaml"
	FormatJSON       = "json"
)

// fileReader reads resource files below a filesystem root
type fileReader struct {
	fs      billy.Filesystem
	charset Charset
}

func newFileReader(fs billy.Filesystem, cs Charset) *fileReader {
	return &fileReader{fs: fs, charset: cs}
}

// Read loads and parses the resource file named by id
func (r *fileReader) Read(id string) (FlatMapping, error) {
	name, err := resourcePath(id)
	if err != nil {
		return FlatMapping{}, err
	}

	file, err := r.fs.Open(name)
	if err != nil {
		return FlatMapping{}, fmt.Errorf("failed to open resource '%s': %w", id, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return FlatMapping{}, fmt.Errorf("failed to read resource '%s': %w", id, err)
	}

	text, err := r.charset.Decode(data)
	if err != nil {
		return FlatMapping{}, fmt.Errorf("failed to decode resource '%s': %w", id, err)
	}

	entries, err := parseResource(detectFileFormat(name), text)
	if err != nil {
		return FlatMapping{}, fmt.Errorf("failed to parse resource '%s': %w", id, err)
	}
	return FlatMapping{entries: entries}, nil
}

// Token derives the freshness token from the file's modification time and size
func (r *fileReader) Token(id string) (Token, error) {
	name, err := resourcePath(id)
	if err != nil {
		return Token{}, err
	}

	info, err := r.fs.Stat(name)
	if err != nil {
		return Token{}, fmt.Errorf("failed to stat resource '%s': %w", id, err)
	}
	if info.IsDir() {
		return Token{}, fmt.Errorf("resource '%s' is a directory", id)
	}
	return Token{ModTime: info.ModTime().UnixNano(), Size: info.Size()}, nil
}

// resourcePath normalizes a resource id and rejects paths escaping the root
func resourcePath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("empty resource name")
	}
	clean := path.Clean(strings.ReplaceAll(id, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("potential path traversal detected in resource name: %s", id)
	}
	return clean, nil
}

// detectFileFormat picks a parser from the file extension.
// Unknown extensions are read as properties.
func detectFileFormat(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatProperties
	}
}

// parseResource converts decoded text into flat entries
func parseResource(format, text string) (map[string]string, error) {
	switch format {
	case FormatProperties:
		loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
		p, err := loader.LoadBytes([]byte(text))
		if err != nil {
			return nil, err
		}
		return p.Map(), nil

	case FormatTOML:
		doc := make(map[string]any)
		if err := toml.Unmarshal([]byte(text), &doc); err != nil {
			return nil, err
		}
		return flattenMap(doc, ""), nil

	case FormatYAML:
		doc := make(map[string]any)
		if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
			return nil, err
		}
		return flattenMap(doc, ""), nil

	case FormatJSON:
		doc := make(map[string]any)
		decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&doc); err != nil {
			return nil, err
		}
		return flattenMap(doc, ""), nil
	}
	return nil, fmt.Errorf("unsupported resource format %q", format)
}
