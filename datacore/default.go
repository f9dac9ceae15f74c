package datacore

import (
	"sort"
	"sync"
)

var (
	defaultCore *DataCore
	directory   = make(map[string]*DataCore)
	directoryMu sync.RWMutex
)

// Init creates a core, makes it the process-wide default and adds it to the
// core directory, replacing any core of the same name.
func Init(name string, opts ...Option) *DataCore {
	c := New(name, opts...)

	directoryMu.Lock()
	defer directoryMu.Unlock()
	defaultCore = c
	directory[name] = c
	return c
}

// Default returns the process-wide core, creating it on first use.
func Default() *DataCore {
	directoryMu.RLock()
	c := defaultCore
	directoryMu.RUnlock()
	if c != nil {
		return c
	}

	directoryMu.Lock()
	defer directoryMu.Unlock()
	if defaultCore == nil {
		defaultCore = New(DefaultCoreName)
		directory[DefaultCoreName] = defaultCore
	}
	return defaultCore
}

// Reset drops the default core and empties the directory. Tests call it
// between cases.
func Reset() {
	directoryMu.Lock()
	defer directoryMu.Unlock()
	defaultCore = nil
	directory = make(map[string]*DataCore)
}

// Open returns the directory core called name, creating it with opts if it
// does not exist yet. opts are ignored for existing cores.
func Open(name string, opts ...Option) *DataCore {
	directoryMu.Lock()
	defer directoryMu.Unlock()
	if c, ok := directory[name]; ok {
		return c
	}
	c := New(name, opts...)
	directory[name] = c
	return c
}

// Get returns the directory core called name.
func Get(name string) (*DataCore, bool) {
	directoryMu.RLock()
	defer directoryMu.RUnlock()
	c, ok := directory[name]
	return c, ok
}

// Names lists the directory's cores in lexical order.
func Names() []string {
	directoryMu.RLock()
	defer directoryMu.RUnlock()
	names := make([]string, 0, len(directory))
	for name := range directory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeclareModel declares a model in the default core.
func DeclareModel(name string, fields []FieldSpec, opts ...DeclareOption) (*RecordType, error) {
	return Default().DeclareModel(name, fields, opts...)
}

// DeclareTemplate declares a template in the default core.
func DeclareTemplate(name string, fields []FieldSpec, opts ...DeclareOption) (*RecordType, error) {
	return Default().DeclareTemplate(name, fields, opts...)
}
