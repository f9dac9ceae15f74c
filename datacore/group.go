package datacore

import "sort"

// Group is a named partition of a namespace. It holds non-owning references
// to the types registered under it.
type Group struct {
	name  string
	types map[string]*RecordType
	order []string
}

func newGroup(name string) *Group {
	return &Group{name: name, types: make(map[string]*RecordType)}
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Get returns the type registered under name.
func (g *Group) Get(name string) (*RecordType, bool) {
	rt, ok := g.types[name]
	return rt, ok
}

// Names returns the registered type names in lexical order.
func (g *Group) Names() []string {
	names := append([]string(nil), g.order...)
	sort.Strings(names)
	return names
}

// Types returns the registered types in registration order.
func (g *Group) Types() []*RecordType {
	types := make([]*RecordType, 0, len(g.order))
	for _, name := range g.order {
		types = append(types, g.types[name])
	}
	return types
}

// Len returns the number of registered types.
func (g *Group) Len() int { return len(g.order) }

func (g *Group) add(name string, rt *RecordType) {
	g.types[name] = rt
	g.order = append(g.order, name)
}

// namespaceTable keeps a namespace's groups in creation order so lookups
// across groups are deterministic.
type namespaceTable struct {
	groups map[string]*Group
	order  []string
}

func newNamespaceTable() *namespaceTable {
	return &namespaceTable{groups: make(map[string]*Group)}
}

func (t *namespaceTable) find(name string) (*RecordType, bool) {
	for _, groupName := range t.order {
		if rt, ok := t.groups[groupName].Get(name); ok {
			return rt, true
		}
	}
	return nil, false
}

func (t *namespaceTable) all() []*RecordType {
	var types []*RecordType
	for _, groupName := range t.order {
		types = append(types, t.groups[groupName].Types()...)
	}
	return types
}
