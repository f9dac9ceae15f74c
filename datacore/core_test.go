package datacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/coredata/errors"
)

func nameFields() []FieldSpec {
	return []FieldSpec{Field("name", String)}
}

func TestRegisterAndGetType(t *testing.T) {
	core := New("registry")

	rt, err := NewRecordType(Models, "Item", nameFields())
	require.NoError(t, err)
	require.NoError(t, core.Register(Models, "equipment", "Item", rt, true))

	got, err := core.GetType(Models, "Item", None[*RecordType]())
	require.NoError(t, err)
	assert.Same(t, rt, got)

	reg := rt.Registration()
	require.NotNil(t, reg)
	assert.Equal(t, Registration{Core: "registry", Namespace: Models, Group: "equipment", Name: "Item"}, *reg)
	assert.Equal(t, "equipment", rt.Group())
	assert.Same(t, core, rt.Core())

	// Templates are a separate namespace
	_, err = core.GetType(Templates, "Item", None[*RecordType]())
	assert.True(t, errors.Is(err, errors.ErrTypeNotFound))
}

func TestRegisterDuplicate(t *testing.T) {
	core := New("duplicates")

	first, err := core.DeclareModel("Item", nameFields(), WithGroup("equipment"))
	require.NoError(t, err)

	second, err := NewRecordType(Models, "Item", []FieldSpec{Field("other", Int)})
	require.NoError(t, err)

	err = core.Register(Models, "equipment", "Item", second, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicatedTypeName))
	assert.True(t, errors.IsConfigurationError(err))
	assert.Nil(t, second.Registration(), "failed registration leaves the type unregistered")

	got, err := core.GetModelType("Item")
	require.NoError(t, err)
	assert.Same(t, first, got, "first registration stays intact")

	// Same type twice is still a duplicate
	err = core.Register(Models, "equipment", "Item", first, true)
	assert.True(t, errors.Is(err, errors.ErrDuplicatedTypeName))

	// Declarations collide the same way
	_, err = core.DeclareModel("Item", nameFields(), WithGroup("equipment"))
	assert.True(t, errors.Is(err, errors.ErrDuplicatedTypeName))

	// Other groups and the other namespace are free
	_, err = core.DeclareModel("Item", nameFields(), WithGroup("loot"))
	assert.NoError(t, err)
	_, err = core.DeclareTemplate("Item", nameFields(), WithGroup("equipment"))
	assert.NoError(t, err)
}

func TestRegisterGroupNotFound(t *testing.T) {
	core := New("groups")

	_, err := core.DeclareModel("Item", nameFields(), WithGroup("missing"), WithoutGroupAutoCreate())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrGroupNotFound))
	assert.False(t, core.HasGroup(Models, "missing"), "no partial group is left behind")
	assert.Empty(t, core.AllModels())

	_, ok := core.LookupModel("Item")
	assert.False(t, ok)

	// Once the group exists, auto-creation is not needed
	_, err = core.DeclareModel("Weapon", nameFields(), WithGroup("missing"))
	require.NoError(t, err)
	_, err = core.DeclareModel("Item", nameFields(), WithGroup("missing"), WithoutGroupAutoCreate())
	assert.NoError(t, err)

	_, err = core.Group(Models, "nope")
	assert.True(t, errors.Is(err, errors.ErrGroupNotFound))
}

func TestGetTypeDefaults(t *testing.T) {
	core := New("defaults")
	fallback, err := NewRecordType(Models, "Fallback", nameFields())
	require.NoError(t, err)

	_, err = core.GetType(Models, "missing", None[*RecordType]())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTypeNotFound))

	got, err := core.GetType(Models, "missing", Some(fallback))
	require.NoError(t, err)
	assert.Same(t, fallback, got)

	// A nil default is still a default
	got, err = core.GetType(Models, "missing", Some[*RecordType](nil))
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, false, TypeOr(core, Models, "invalid", false))
	assert.Equal(t, false, TypeOr(core, Templates, "invalid", false))
	assert.Nil(t, TypeOr(core, Models, "invalid", nil))
	assert.Equal(t, 0, TypeOr(core, Models, "invalid", 0))

	_, err = core.GetTemplateType("missing")
	assert.True(t, errors.Is(err, errors.ErrTypeNotFound))
}

func TestCoresAreIsolated(t *testing.T) {
	x := New("X")
	y := New("Y")

	foo, err := x.DeclareModel("Foo", nameFields())
	require.NoError(t, err)

	_, err = y.GetModelType("Foo")
	assert.True(t, errors.Is(err, errors.ErrTypeNotFound))
	_, ok := y.LookupModel("Foo")
	assert.False(t, ok)

	// Y can declare its own Foo
	yFoo, err := y.DeclareModel("Foo", nameFields())
	require.NoError(t, err)
	assert.NotSame(t, foo, yFoo)

	_, err = foo.New(map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Len(t, x.ModelInstances(), 1)
	assert.Empty(t, y.ModelInstances())
}

func TestRegisterMisuse(t *testing.T) {
	core := New("misuse")

	tests := []struct {
		name string
		ns   Namespace
		rt   func(t *testing.T) *RecordType
	}{
		{"nil type", Models, func(t *testing.T) *RecordType { return nil }},
		{"model base", Models, func(t *testing.T) *RecordType { return ModelBase }},
		{"template base", Templates, func(t *testing.T) *RecordType { return TemplateBase }},
		{"namespace mismatch", Templates, func(t *testing.T) *RecordType {
			rt, err := NewRecordType(Models, "M", nameFields())
			require.NoError(t, err)
			return rt
		}},
		{"already registered elsewhere", Models, func(t *testing.T) *RecordType {
			rt, err := New("other").DeclareModel("M", nameFields())
			require.NoError(t, err)
			return rt
		}},
		{"unknown namespace", Namespace(9), func(t *testing.T) *RecordType { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.Register(tt.ns, "default", "Name", tt.rt(t), true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrTypeError))
			assert.True(t, errors.IsMisuseError(err))
			assert.False(t, errors.IsConfigurationError(err))
		})
	}
	assert.Empty(t, core.Groups(Models))
	assert.Empty(t, core.Groups(Templates))
}

func TestDeclareValidation(t *testing.T) {
	core := New("declare")

	_, err := core.DeclareModel("", nameFields())
	assert.True(t, errors.Is(err, errors.ErrTypeError))

	_, err = core.DeclareModel("Twice", []FieldSpec{Field("a", String), Field("a", Int)})
	assert.True(t, errors.Is(err, errors.ErrTypeError))

	_, err = core.DeclareModel("Unnamed", []FieldSpec{Field("", String)})
	assert.True(t, errors.Is(err, errors.ErrTypeError))

	_, err = core.DeclareModel("BadDefault", []FieldSpec{Field("n", Int).Default("many")})
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord))

	assert.Empty(t, core.AllModels())
}

func TestListings(t *testing.T) {
	core := New("listings", WithDefaultGroup("base"))
	assert.Equal(t, "base", core.DefaultGroup())

	a, err := core.DeclareModel("A", nameFields())
	require.NoError(t, err)
	b, err := core.DeclareModel("B", nameFields(), WithGroup("extra"))
	require.NoError(t, err)
	c, err := core.DeclareModel("C", nameFields())
	require.NoError(t, err)
	tpl, err := core.DeclareTemplate("T", nameFields())
	require.NoError(t, err)

	assert.Equal(t, []*RecordType{a, c, b}, core.AllModels())
	assert.Equal(t, []*RecordType{tpl}, core.AllTemplates())
	assert.Equal(t, []string{"base", "extra"}, core.Groups(Models))
	assert.True(t, core.HasGroup(Templates, "base"))
	assert.False(t, core.HasGroup(Templates, "extra"))

	g, err := core.Group(Models, "base")
	require.NoError(t, err)
	assert.Equal(t, "base", g.Name())
	assert.Equal(t, []string{"A", "C"}, g.Names())
	assert.Equal(t, 2, g.Len())

	assert.Equal(t, "model listings/base/A", a.String())
	assert.Equal(t, "template", tpl.Namespace().String())
}
