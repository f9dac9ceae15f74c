package storage

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
)

// Factory builds an adapter for the file at path.
type Factory func(path string) Adapter

// Descriptor advertises an adapter and the extensions it handles.
// Extensions are lowercase and carry no leading dot.
type Descriptor struct {
	Name       string
	Extensions []string
	New        Factory
}

// Handles reports whether the descriptor claims ext.
func (d Descriptor) Handles(ext string) bool {
	for _, candidate := range d.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

// Registry holds storage descriptors in registration order
type Registry struct {
	mu          sync.RWMutex
	descriptors []Descriptor
}

// NewRegistry creates an empty storage registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a descriptor.
// Returns ErrInvalidAdapter if the descriptor has no extensions, a malformed
// extension or no factory. An extension already claimed by an earlier
// descriptor is logged; lookups keep returning the earlier one.
func (r *Registry) Register(d Descriptor) error {
	if len(d.Extensions) == 0 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidAdapter, "adapter %q declares no extensions", d.Name),
			"every adapter must handle at least one extension, e.g. []string{\"json\"}",
		)
	}
	for _, ext := range d.Extensions {
		if ext == "" || strings.HasPrefix(ext, ".") || ext != strings.ToLower(ext) {
			return errors.Wrapf(errors.ErrInvalidAdapter, "adapter %q has invalid extension %q (want lowercase, no leading dot)", d.Name, ext)
		}
	}
	if d.New == nil {
		return errors.Wrapf(errors.ErrInvalidAdapter, "adapter %q has no factory", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range d.Extensions {
		for _, existing := range r.descriptors {
			if existing.Handles(ext) {
				logger.Warnw("Storage extension already claimed",
					logger.FieldExtension, ext,
					logger.FieldAdapter, d.Name,
					"claimed_by", existing.Name)
			}
		}
	}

	d.Extensions = append([]string(nil), d.Extensions...)
	r.descriptors = append(r.descriptors, d)
	logger.Debugw("Registered storage adapter",
		logger.FieldAdapter, d.Name,
		"extensions", d.Extensions)
	return nil
}

// Resolve returns the first descriptor handling ext.
// The error lists every supported extension.
func (r *Registry) Resolve(ext string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.descriptors {
		if d.Handles(ext) {
			return d, nil
		}
	}

	supported := r.extensionsLocked()
	return Descriptor{}, errors.WithHintf(
		errors.Wrapf(errors.ErrUnsupportedFormat,
			"the extension %q is not supported for raws, the available extensions are [%s]",
			ext, strings.Join(supported, ", ")),
		"rename the file to one of: %s", strings.Join(supported, ", "),
	)
}

// ResolvePath resolves the adapter for a path or bare extension.
func (r *Registry) ResolvePath(pathOrExt string) (Descriptor, error) {
	ext, err := ExtensionOf(pathOrExt)
	if err != nil {
		return Descriptor{}, err
	}
	return r.Resolve(ext)
}

// Extensions returns every registered extension in registration order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extensionsLocked()
}

func (r *Registry) extensionsLocked() []string {
	var extensions []string
	for _, d := range r.descriptors {
		extensions = append(extensions, d.Extensions...)
	}
	return extensions
}

// Descriptors returns a copy of the registered descriptors.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Descriptor(nil), r.descriptors...)
}

// Open validates path and builds the adapter for it.
func (r *Registry) Open(path string) (Adapter, error) {
	clean, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}
	d, err := r.Resolve(suffix(clean))
	if err != nil {
		return nil, err
	}
	return d.New(clean), nil
}

// Create builds the adapter for path without requiring the file to exist.
func (r *Registry) Create(path string) (Adapter, error) {
	clean := filepath.Clean(path)
	d, err := r.Resolve(suffix(clean))
	if err != nil {
		return nil, err
	}
	return d.New(clean), nil
}

// Glob returns every raw file directly inside dir whose extension is
// registered and not excluded, in lexical order.
func (r *Registry) Glob(dir string, excluded []string) ([]string, error) {
	clean, err := ValidatePath(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	for _, ext := range r.Extensions() {
		if containsExt(excluded, ext) {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(clean, "*."+ext))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to glob %s", clean)
		}
		for _, match := range matches {
			if !seen[match] && isFile(match) {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

var (
	defaultRegistry   *Registry
	defaultRegistryMu sync.RWMutex
)

func init() {
	defaultRegistry = NewRegistry()
	if err := RegisterBuiltins(defaultRegistry); err != nil {
		panic(err)
	}
}

// RegisterBuiltins registers the JSON, YAML, TOML and SQLite adapters.
func RegisterBuiltins(r *Registry) error {
	builtins := []Descriptor{
		{Name: "JSONStorage", Extensions: JSONExtensions, New: NewJSONAdapter},
		{Name: "YAMLStorage", Extensions: YAMLExtensions, New: NewYAMLAdapter},
		{Name: "TOMLStorage", Extensions: TOMLExtensions, New: NewTOMLAdapter},
		{Name: "SQLiteStorage", Extensions: SQLiteExtensions, New: NewSQLiteAdapter},
	}
	for _, d := range builtins {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRegistry returns the process-wide registry holding the built-in
// adapters.
func DefaultRegistry() *Registry {
	defaultRegistryMu.RLock()
	defer defaultRegistryMu.RUnlock()
	return defaultRegistry
}

// SetDefaultRegistry replaces the process-wide registry. A nil registry
// restores the built-ins.
func SetDefaultRegistry(r *Registry) {
	if r == nil {
		r = NewRegistry()
		if err := RegisterBuiltins(r); err != nil {
			panic(err)
		}
	}
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()
	defaultRegistry = r
}

// Register registers a descriptor with the default registry
func Register(d Descriptor) error {
	return DefaultRegistry().Register(d)
}

// Resolve resolves an extension against the default registry
func Resolve(ext string) (Descriptor, error) {
	return DefaultRegistry().Resolve(ext)
}

// Extensions lists the default registry's extensions
func Extensions() []string {
	return DefaultRegistry().Extensions()
}
