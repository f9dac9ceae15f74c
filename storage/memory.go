package storage

import "sync"

// MemoryExtensions are the extensions handled by the memory adapter.
var MemoryExtensions = []string{"memory"}

// MemoryAdapter keeps its RawTable in process only. Writes replace the
// in-memory table and never touch disk. It is not registered by default;
// tests and callers that build tables programmatically register it
// explicitly.
type MemoryAdapter struct {
	name string

	mu     sync.Mutex
	memory RawTable
}

// NewMemoryAdapter returns an empty memory adapter. name is reported as its
// Path.
func NewMemoryAdapter(name string) *MemoryAdapter {
	return &MemoryAdapter{name: name}
}

// NewMemoryAdapterFactory returns a Factory handing out one shared
// MemoryAdapter per name, so a table written under a name can be read back
// through a second Open of the same name.
func NewMemoryAdapterFactory() Factory {
	var mu sync.Mutex
	adapters := make(map[string]*MemoryAdapter)
	return func(path string) Adapter {
		mu.Lock()
		defer mu.Unlock()
		if a, ok := adapters[path]; ok {
			return a
		}
		a := NewMemoryAdapter(path)
		adapters[path] = a
		return a
	}
}

func (m *MemoryAdapter) Path() string { return m.name }

func (m *MemoryAdapter) Extensions() []string {
	return append([]string(nil), MemoryExtensions...)
}

func (m *MemoryAdapter) Read() (RawTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.memory == nil {
		m.memory = RawTable{}
	}
	return m.memory, nil
}

func (m *MemoryAdapter) Write(data RawTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memory = data.Normalize()
	return nil
}

// Invalidate is a no-op: the memory copy is the only copy.
func (m *MemoryAdapter) Invalidate() {}
