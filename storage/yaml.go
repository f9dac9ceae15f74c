package storage

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLExtensions are the extensions handled by the YAML adapter.
var YAMLExtensions = []string{"yaml", "yml"}

// YAMLCodec reads and writes YAML documents.
var YAMLCodec = Codec{
	Name: "yaml",
	Unmarshal: func(data []byte) (map[string]any, error) {
		var native map[string]any
		if err := yaml.Unmarshal(data, &native); err != nil {
			return nil, err
		}
		return native, nil
	},
	Marshal: func(native map[string][]map[string]any) ([]byte, error) {
		return yaml.Marshal(native)
	},
}

// NewYAMLAdapter returns an adapter for the YAML file at path.
func NewYAMLAdapter(path string) Adapter {
	return newFileAdapter(path, YAMLExtensions, YAMLCodec)
}

func toKey(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
