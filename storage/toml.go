package storage

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/coredata/errors"
)

// TOMLExtensions are the extensions handled by the TOML adapter.
var TOMLExtensions = []string{"toml"}

// TOMLCodec stores each table as an array of tables:
//
//	[[items]]
//	name = "sword"
//	damage = 10
var TOMLCodec = Codec{
	Name: "toml",
	Unmarshal: func(data []byte) (map[string]any, error) {
		var native map[string]any
		if err := toml.Unmarshal(data, &native); err != nil {
			return nil, err
		}
		return native, nil
	},
	Marshal: func(native map[string][]map[string]any) ([]byte, error) {
		for table, rows := range native {
			for i, row := range rows {
				if at, ok := findNull(row); ok {
					return nil, errors.Wrapf(errors.ErrMalformedRaw,
						"toml has no null: %s[%d].%s", table, i, at)
				}
			}
		}
		return toml.Marshal(native)
	},
}

// findNull returns the dotted location of the first nil inside value.
// go-toml silently drops nil entries, so they are refused before encoding.
func findNull(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case Row:
		return findNull(map[string]any(v))
	case []map[string]any:
		for i, inner := range v {
			if at, ok := findNull(inner); ok {
				return joinLocation(fmt.Sprintf("[%d]", i), at), true
			}
		}
	case map[string]any:
		for key, inner := range v {
			if at, ok := findNull(inner); ok {
				return joinLocation(key, at), true
			}
		}
	case []any:
		for i, inner := range v {
			if at, ok := findNull(inner); ok {
				return joinLocation(fmt.Sprintf("[%d]", i), at), true
			}
		}
	}
	return "", false
}

func joinLocation(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + "." + tail
}

// NewTOMLAdapter returns an adapter for the TOML file at path.
func NewTOMLAdapter(path string) Adapter {
	return newFileAdapter(path, TOMLExtensions, TOMLCodec)
}
