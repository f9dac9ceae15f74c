package storage

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/teranos/coredata/errors"
)

// Codec converts between a file format and the native raw shape: table name
// to list of records.
type Codec struct {
	// Name identifies the format in logs and errors.
	Name string

	// Unmarshal parses file content. Lists and mappings may use any of the
	// shapes the underlying library produces; FromNative canonicalizes them.
	Unmarshal func(data []byte) (map[string]any, error)

	// Marshal serializes the native shape back into the format.
	Marshal func(native map[string][]map[string]any) ([]byte, error)
}

// decode runs the codec over content and canonicalizes the result.
// Empty or whitespace-only content is an empty RawTable.
func (c Codec) decode(content []byte) (RawTable, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return RawTable{}, nil
	}

	native, err := c.Unmarshal(content)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedRaw, "%s: %v", c.Name, err)
	}

	return FromNative(native)
}

// JSONCodec reads and writes indented JSON.
var JSONCodec = Codec{
	Name: "json",
	Unmarshal: func(data []byte) (map[string]any, error) {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		var native map[string]any
		if err := decoder.Decode(&native); err != nil {
			return nil, err
		}
		if _, err := decoder.Token(); err != io.EOF {
			return nil, errors.New("unexpected data after the top-level object")
		}
		return native, nil
	},
	Marshal: func(native map[string][]map[string]any) ([]byte, error) {
		out, err := json.MarshalIndent(native, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	},
}

// normalizeValue gives every codec the same scalar types: integers become
// int64, other numbers float64, and nested mappings map[string]any.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return uintValue(v)
	case float32:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[toKey(key)] = normalizeValue(item)
		}
		return out
	}
	return value
}

func uintValue(v uint64) any {
	if v > math.MaxInt64 {
		return float64(v)
	}
	return int64(v)
}
