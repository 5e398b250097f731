package codec

import (
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/brettbedarf/nativefs"
)

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(v, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

type yamlCodec struct{}

func (yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

type tomlCodec struct{}

func (tomlCodec) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func (tomlCodec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// JSON, YAML and TOML are the built-in codecs
var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
	TOML Codec = tomlCodec{}
)

// RegisterBuiltins registers all built-in codecs by default
// or only the specific ones if formats are provided
func (r *Registry) RegisterBuiltins(formats ...nativefs.ExportFormat) {
	if len(formats) == 0 {
		formats = append(formats, nativefs.JSONFormat, nativefs.YAMLFormat, nativefs.TOMLFormat)
	}

	for _, format := range formats {
		switch format {
		case nativefs.JSONFormat:
			r.Register("json", JSON)
		case nativefs.YAMLFormat:
			r.Register("yaml", YAML)
			r.Register("yml", YAML)
		case nativefs.TOMLFormat:
			r.Register("toml", TOML)
		}
	}
}

// NewDefaultRegistry returns a registry with every built-in codec
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterBuiltins()
	return r
}
