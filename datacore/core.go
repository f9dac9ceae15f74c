package datacore

import (
	"go.uber.org/zap"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
	"github.com/teranos/coredata/storage"
)

const (
	// DefaultCoreName names the process-wide core unless configured otherwise.
	DefaultCoreName = "default"
	// DefaultGroupName is used by declarations that name no group.
	DefaultGroupName = "default"
)

// DataCore is a type registry plus the records built from its types.
// Cores never share registrations.
type DataCore struct {
	name         string
	defaultGroup string

	models    *namespaceTable
	templates *namespaceTable

	modelInstances    []*Record
	templateInstances []*Record

	storage *storage.Registry
	pool    *storage.Pool
	logger  *zap.SugaredLogger
}

// Option configures a DataCore
type Option func(*DataCore)

// WithStorage resolves raw files through r instead of the default registry.
func WithStorage(r *storage.Registry) Option {
	return func(c *DataCore) {
		c.storage = r
	}
}

// WithPool shares an adapter pool between cores. The pool's registry
// replaces any WithStorage registry.
func WithPool(p *storage.Pool) Option {
	return func(c *DataCore) {
		c.pool = p
	}
}

// WithLogger sets the logger used for registrations and loads.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *DataCore) {
		c.logger = l
	}
}

// WithDefaultGroup sets the group used by declarations without WithGroup.
func WithDefaultGroup(group string) Option {
	return func(c *DataCore) {
		c.defaultGroup = group
	}
}

// New creates an isolated core. It is not added to the core directory; use
// Open for that.
func New(name string, opts ...Option) *DataCore {
	c := &DataCore{
		name:         name,
		defaultGroup: DefaultGroupName,
		models:       newNamespaceTable(),
		templates:    newNamespaceTable(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.pool == nil {
		c.pool = storage.NewPool(c.storage, 0, 0)
	}
	c.storage = c.pool.Registry()
	if c.logger == nil {
		c.logger = logger.ComponentLogger("datacore")
	}
	c.logger = c.logger.With(logger.FieldCore, name)
	return c
}

// Name returns the core's name.
func (c *DataCore) Name() string { return c.name }

// DefaultGroup returns the group used by declarations without WithGroup.
func (c *DataCore) DefaultGroup() string { return c.defaultGroup }

// Storage returns the registry raw files are resolved with.
func (c *DataCore) Storage() *storage.Registry { return c.storage }

// Pool returns the adapter pool loads read through.
func (c *DataCore) Pool() *storage.Pool { return c.pool }

func (c *DataCore) namespace(ns Namespace) (*namespaceTable, error) {
	switch ns {
	case Models:
		return c.models, nil
	case Templates:
		return c.templates, nil
	default:
		return nil, errors.Wrapf(errors.ErrTypeError, "unknown namespace %d", int(ns))
	}
}

// Register stores rt under (ns, group, name).
//
// Returns ErrGroupNotFound when the group does not exist and autoCreate is
// false, and ErrDuplicatedTypeName when the group already holds name. Both
// are checked before anything changes, so a failed registration leaves the
// registry as it was.
func (c *DataCore) Register(ns Namespace, group, name string, rt *RecordType, autoCreate bool) error {
	table, err := c.namespace(ns)
	if err != nil {
		return err
	}

	g, exists := table.groups[group]
	if !exists && !autoCreate {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrGroupNotFound, "%s group %q does not exist in core %q", ns, group, c.name),
			"declare the group first or allow it to be created",
		)
	}
	if exists {
		if _, taken := g.Get(name); taken {
			return errors.Wrapf(errors.ErrDuplicatedTypeName,
				"the %s name %q is already registered in group %q of core %q", ns, name, group, c.name)
		}
	}

	if rt == nil || rt.base {
		return errors.Wrap(errors.ErrTypeError, "only declared record types can be registered")
	}
	if rt.namespace != ns {
		return errors.Wrapf(errors.ErrTypeError, "a %s type cannot be registered as a %s", rt.namespace, ns)
	}
	if rt.registration != nil {
		return errors.Wrapf(errors.ErrTypeError, "type %q is already registered in core %q", rt.name, rt.registration.Core)
	}

	if !exists {
		g = newGroup(group)
		table.groups[group] = g
		table.order = append(table.order, group)
		c.logger.Debugw("Created type group",
			logger.FieldNamespace, ns.String(),
			logger.FieldGroup, group)
	}
	g.add(name, rt)

	rt.name = name
	rt.core = c
	rt.registration = &Registration{
		Core:      c.name,
		Namespace: ns,
		Group:     group,
		Name:      name,
	}

	c.logger.Debugw("Registered type",
		logger.FieldNamespace, ns.String(),
		logger.FieldGroup, group,
		logger.FieldType, name)
	return nil
}

// GetType finds name in any group of ns. On a miss it returns def when one
// is given, otherwise ErrTypeNotFound.
func (c *DataCore) GetType(ns Namespace, name string, def Optional[*RecordType]) (*RecordType, error) {
	table, err := c.namespace(ns)
	if err != nil {
		return nil, err
	}
	if rt, ok := table.find(name); ok {
		return rt, nil
	}
	if fallback, ok := def.Get(); ok {
		return fallback, nil
	}
	return nil, errors.Wrapf(errors.ErrTypeNotFound, "no %s named %q in core %q", ns, name, c.name)
}

// GetModelType returns the model registered as name.
func (c *DataCore) GetModelType(name string) (*RecordType, error) {
	return c.GetType(Models, name, None[*RecordType]())
}

// GetTemplateType returns the template registered as name.
func (c *DataCore) GetTemplateType(name string) (*RecordType, error) {
	return c.GetType(Templates, name, None[*RecordType]())
}

// LookupModel is GetModelType without an error.
func (c *DataCore) LookupModel(name string) (*RecordType, bool) {
	rt, ok := c.models.find(name)
	return rt, ok
}

// LookupTemplate is GetTemplateType without an error.
func (c *DataCore) LookupTemplate(name string) (*RecordType, bool) {
	rt, ok := c.templates.find(name)
	return rt, ok
}

// TypeOr returns the type registered as name in ns, or fallback. Unlike
// GetType the fallback may be any value, such as false.
func TypeOr(c *DataCore, ns Namespace, name string, fallback any) any {
	table, err := c.namespace(ns)
	if err != nil {
		return fallback
	}
	if rt, ok := table.find(name); ok {
		return rt
	}
	return fallback
}

// HasGroup reports whether ns has a group named group.
func (c *DataCore) HasGroup(ns Namespace, group string) bool {
	table, err := c.namespace(ns)
	if err != nil {
		return false
	}
	_, ok := table.groups[group]
	return ok
}

// Group returns a group of ns.
func (c *DataCore) Group(ns Namespace, group string) (*Group, error) {
	table, err := c.namespace(ns)
	if err != nil {
		return nil, err
	}
	g, ok := table.groups[group]
	if !ok {
		return nil, errors.Wrapf(errors.ErrGroupNotFound, "%s group %q does not exist in core %q", ns, group, c.name)
	}
	return g, nil
}

// Groups returns the group names of ns in creation order.
func (c *DataCore) Groups(ns Namespace) []string {
	table, err := c.namespace(ns)
	if err != nil {
		return nil
	}
	return append([]string(nil), table.order...)
}

// AllModels returns every registered model type.
func (c *DataCore) AllModels() []*RecordType { return c.models.all() }

// AllTemplates returns every registered template type.
func (c *DataCore) AllTemplates() []*RecordType { return c.templates.all() }

// ModelInstances returns the model records built in this core, oldest first.
func (c *DataCore) ModelInstances() []*Record {
	return append([]*Record(nil), c.modelInstances...)
}

// TemplateInstances returns the template records built in this core, oldest
// first.
func (c *DataCore) TemplateInstances() []*Record {
	return append([]*Record(nil), c.templateInstances...)
}

// InstancesOf returns the records of rt, oldest first.
func (c *DataCore) InstancesOf(rt *RecordType) []*Record {
	source := c.modelInstances
	if rt.namespace == Templates {
		source = c.templateInstances
	}
	var out []*Record
	for _, rec := range source {
		if rec.rt == rt {
			out = append(out, rec)
		}
	}
	return out
}

// ClearInstances forgets every record built in this core. Types stay
// registered.
func (c *DataCore) ClearInstances() {
	c.modelInstances = nil
	c.templateInstances = nil
}

func (c *DataCore) appendInstances(ns Namespace, records ...*Record) {
	if ns == Templates {
		c.templateInstances = append(c.templateInstances, records...)
		return
	}
	c.modelInstances = append(c.modelInstances, records...)
}
