package storage

// JSONExtensions are the extensions handled by the JSON adapter.
var JSONExtensions = []string{"json"}

// NewJSONAdapter returns an adapter for the JSON file at path.
func NewJSONAdapter(path string) Adapter {
	return newFileAdapter(path, JSONExtensions, JSONCodec)
}
