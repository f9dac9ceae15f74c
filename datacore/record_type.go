package datacore

import (
	"fmt"
	"strings"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
)

// PostInitFunc runs after a record's fields are populated and before the
// record is added to its core. It may change fields; an error discards the
// record.
type PostInitFunc func(*Record) error

// Registration is a type's back-reference to where it was registered.
type Registration struct {
	Core      string
	Namespace Namespace
	Group     string
	Name      string
}

// RecordType is a declared record shape: ordered, named, typed fields.
// Types are compared by identity.
type RecordType struct {
	name      string
	namespace Namespace
	table     string
	fields    []FieldSpec
	index     map[string]int
	postInit  PostInitFunc

	// base marks ModelBase and TemplateBase; abstract forbids New.
	base     bool
	abstract bool

	core         *DataCore
	registration *Registration
}

var (
	// ModelBase is the bare model shape. It can be instantiated but has no
	// fields, so it cannot load raws.
	ModelBase = &RecordType{name: "Model", namespace: Models, base: true, index: map[string]int{}}

	// TemplateBase is abstract: New always fails with
	// ErrCannotInstanceTemplate.
	TemplateBase = &RecordType{name: "Template", namespace: Templates, base: true, abstract: true, index: map[string]int{}}
)

type declaration struct {
	group      string
	table      string
	postInit   PostInitFunc
	autoCreate bool
}

// DeclareOption configures a declaration.
type DeclareOption func(*declaration)

// WithGroup registers the type under group instead of the core's default
// group.
func WithGroup(group string) DeclareOption {
	return func(d *declaration) {
		d.group = group
	}
}

// WithTable reads rows from table instead of the table named after the type.
func WithTable(table string) DeclareOption {
	return func(d *declaration) {
		d.table = table
	}
}

// WithPostInit sets the hook run on every new record.
func WithPostInit(fn PostInitFunc) DeclareOption {
	return func(d *declaration) {
		d.postInit = fn
	}
}

// WithoutGroupAutoCreate makes the declaration fail with ErrGroupNotFound
// unless the group already exists.
func WithoutGroupAutoCreate() DeclareOption {
	return func(d *declaration) {
		d.autoCreate = false
	}
}

// DeclareModel declares a model type and registers it in c.
func (c *DataCore) DeclareModel(name string, fields []FieldSpec, opts ...DeclareOption) (*RecordType, error) {
	return c.declare(Models, name, fields, opts)
}

// DeclareTemplate declares a template type and registers it in c.
func (c *DataCore) DeclareTemplate(name string, fields []FieldSpec, opts ...DeclareOption) (*RecordType, error) {
	return c.declare(Templates, name, fields, opts)
}

func (c *DataCore) declare(ns Namespace, name string, fields []FieldSpec, opts []DeclareOption) (*RecordType, error) {
	d := declaration{group: c.defaultGroup, autoCreate: true}
	for _, opt := range opts {
		opt(&d)
	}

	rt, err := newRecordType(ns, name, fields)
	if err != nil {
		return nil, err
	}
	rt.table = d.table
	rt.postInit = d.postInit

	if err := c.Register(ns, d.group, name, rt, d.autoCreate); err != nil {
		return nil, err
	}
	return rt, nil
}

// NewRecordType builds an unregistered type. Register it with
// (*DataCore).Register.
func NewRecordType(ns Namespace, name string, fields []FieldSpec, opts ...DeclareOption) (*RecordType, error) {
	d := declaration{}
	for _, opt := range opts {
		opt(&d)
	}
	rt, err := newRecordType(ns, name, fields)
	if err != nil {
		return nil, err
	}
	rt.table = d.table
	rt.postInit = d.postInit
	return rt, nil
}

func newRecordType(ns Namespace, name string, fields []FieldSpec) (*RecordType, error) {
	if !ns.valid() {
		return nil, errors.Wrapf(errors.ErrTypeError, "unknown namespace %d", int(ns))
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.Wrap(errors.ErrTypeError, "a record type needs a name")
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.name == "" {
			return nil, errors.Wrapf(errors.ErrTypeError, "type %q: field %d has no name", name, i)
		}
		if _, dup := index[f.name]; dup {
			return nil, errors.Wrapf(errors.ErrTypeError, "type %q: field %q declared twice", name, f.name)
		}
		if f.hasDefault {
			if _, err := f.defaultValue(); err != nil {
				return nil, errors.Wrapf(err, "type %q: bad default", name)
			}
		}
		index[f.name] = i
	}

	return &RecordType{
		name:      name,
		namespace: ns,
		fields:    append([]FieldSpec(nil), fields...),
		index:     index,
	}, nil
}

// Name returns the registered name, or the declared name before
// registration.
func (rt *RecordType) Name() string { return rt.name }

// Namespace returns Models or Templates.
func (rt *RecordType) Namespace() Namespace { return rt.namespace }

// Group returns the group the type is registered under, empty if
// unregistered.
func (rt *RecordType) Group() string {
	if rt.registration == nil {
		return ""
	}
	return rt.registration.Group
}

// Table returns the raw table rows are loaded from. It defaults to the type
// name.
func (rt *RecordType) Table() string {
	if rt.table != "" {
		return rt.table
	}
	return rt.name
}

// Fields returns the declared fields in order.
func (rt *RecordType) Fields() []FieldSpec {
	return append([]FieldSpec(nil), rt.fields...)
}

// FieldNames returns the declared field names in order.
func (rt *RecordType) FieldNames() []string {
	names := make([]string, len(rt.fields))
	for i, f := range rt.fields {
		names[i] = f.name
	}
	return names
}

// IsAbstract reports whether the type refuses instantiation.
func (rt *RecordType) IsAbstract() bool { return rt.abstract }

// Registration returns the type's registration metadata, nil if the type
// was never registered.
func (rt *RecordType) Registration() *Registration { return rt.registration }

// Core returns the core the type is registered in. Base and unregistered
// types build their records in the default core.
func (rt *RecordType) Core() *DataCore {
	if rt.core != nil {
		return rt.core
	}
	return Default()
}

func (rt *RecordType) String() string {
	if rt == nil {
		return "<nil>"
	}
	if rt.registration == nil {
		return fmt.Sprintf("%s %s", rt.namespace, rt.name)
	}
	return fmt.Sprintf("%s %s/%s/%s", rt.namespace, rt.registration.Core, rt.registration.Group, rt.name)
}

// New builds a record from values, runs the post-init hook and appends the
// record to the type's core.
func (rt *RecordType) New(values map[string]any) (*Record, error) {
	rec, err := rt.build(values)
	if err != nil {
		return nil, err
	}
	core := rt.Core()
	core.appendInstances(rt.namespace, rec)
	core.logger.Debugw("Created record",
		logger.FieldType, rt.name,
		logger.FieldRecordID, rec.id.String())
	return rec, nil
}

// build populates and post-initializes a record without adding it anywhere.
func (rt *RecordType) build(values map[string]any) (*Record, error) {
	if rt == nil {
		return nil, errors.Wrap(errors.ErrTypeError, "nil record type")
	}
	if rt.abstract {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrCannotInstanceTemplate, "%s", rt.name),
			"declare a template with DeclareTemplate and instantiate that",
		)
	}

	for key := range values {
		if _, ok := rt.index[key]; !ok {
			return nil, errors.Wrapf(errors.ErrInvalidRecord, "%s has no field %q", rt.name, key)
		}
	}

	rec := newRecord(rt)
	for _, f := range rt.fields {
		raw, present := values[f.name]
		var (
			v   any
			err error
		)
		switch {
		case present:
			v, err = f.coerce(raw)
		case f.hasDefault:
			v, err = f.defaultValue()
		default:
			return nil, errors.Wrapf(errors.ErrInvalidRecord, "%s: missing field %q", rt.name, f.name)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s", rt.name)
		}
		rec.values[f.name] = v
	}

	if rt.postInit != nil {
		if err := rt.postInit(rec); err != nil {
			return nil, errors.Wrapf(err, "%s post-init", rt.name)
		}
	}
	return rec, nil
}
