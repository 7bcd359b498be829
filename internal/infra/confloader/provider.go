package confloader

import (
	"bytes"
	"errors"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/maps"
)

var (
	// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
	ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

	// ErrUnsupportedFormat is returned for a config file extension with no parser.
	ErrUnsupportedFormat = errors.New("confloader: unsupported config file format")
)

// mapProvider is a koanf provider over an in-memory map. Dotted keys are
// expanded into nested maps.
type mapProvider map[string]any

// ReadBytes is not supported.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map.
func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}

// TOMLParser is a koanf parser backed by BurntSushi/toml.
type TOMLParser struct{}

// TOML returns a koanf parser for TOML documents.
func TOML() *TOMLParser {
	return &TOMLParser{}
}

// Unmarshal parses TOML bytes into a nested map.
func (p *TOMLParser) Unmarshal(b []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal renders a nested map as TOML.
func (p *TOMLParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
