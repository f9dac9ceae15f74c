package datacore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/coredata/errors"
	cdtest "github.com/teranos/coredata/internal/testing"
	"github.com/teranos/coredata/storage"
)

var twoItems = map[string]string{
	"items.json": `{"Item": [{"name": "A"}, {"name": "B"}]}`,
	"items.yaml": "Item:\n  - name: A\n  - name: B\n",
	"items.yml":  "Item:\n- name: A\n- name: B\n",
	"items.toml": "[[Item]]\nname = \"A\"\n\n[[Item]]\nname = \"B\"\n",
}

func declareItem(t *testing.T, core *DataCore, opts ...DeclareOption) *RecordType {
	t.Helper()
	item, err := core.DeclareModel("Item", []FieldSpec{Field("name", String)}, opts...)
	require.NoError(t, err)
	return item
}

func names(records []*Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.GetString("name")
	}
	return out
}

func TestLoadRowsInOrder(t *testing.T) {
	for file, content := range twoItems {
		t.Run(file, func(t *testing.T) {
			core := New("load-" + file)
			item := declareItem(t, core)

			records, err := item.Load(cdtest.WriteRaw(t, file, content))
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, []string{"A", "B"}, names(records))
			assert.Equal(t, records, core.ModelInstances())
			for _, rec := range records {
				assert.Same(t, item, rec.Type())
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	core := New("load-errors")
	item := declareItem(t, core)

	_, err := item.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidPath))

	_, err = item.Load(cdtest.WriteRaw(t, "items.txt", "Item: []"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "json")

	_, err = item.Load(cdtest.WriteRaw(t, "items.json", `{"Item": 3}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedRaw))

	assert.Empty(t, core.ModelInstances())
}

func TestLoadRequiresConcreteType(t *testing.T) {
	path := cdtest.WriteRaw(t, "items.json", twoItems["items.json"])
	core := New("load-types")
	fieldless, err := core.DeclareModel("Item", nil)
	require.NoError(t, err)

	var nilType *RecordType
	tests := []struct {
		name string
		rt   *RecordType
	}{
		{"model base", ModelBase},
		{"template base", TemplateBase},
		{"nil type", nilType},
		{"no fields", fieldless},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rt.Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrTypeError))

			_, err = tt.rt.LoadDir(filepath.Dir(path))
			assert.True(t, errors.Is(err, errors.ErrTypeError))
		})
	}
	assert.Empty(t, core.ModelInstances())
}

func TestLoadIsAllOrNothing(t *testing.T) {
	core := New("load-atomic")
	item := declareItem(t, core)

	path := cdtest.WriteRaw(t, "items.json", `{"Item": [{"name": "A"}, {"name": "B", "extra": 1}]}`)
	_, err := item.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord))
	assert.Contains(t, err.Error(), "row 1")
	assert.Empty(t, core.ModelInstances())
}

func TestLoadMissingTable(t *testing.T) {
	core := New("load-missing-table")
	item := declareItem(t, core)

	records, err := item.Load(cdtest.WriteRaw(t, "other.json", `{"Other": [{"name": "A"}]}`))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = item.Load(cdtest.WriteRaw(t, "empty.json", "  \n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadWithTable(t *testing.T) {
	core := New("load-table")
	item := declareItem(t, core, WithTable("items"))
	assert.Equal(t, "items", item.Table())

	records, err := item.Load(cdtest.WriteRaw(t, "items.yaml", "items:\n  - name: rope\nItem:\n  - name: ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"rope"}, names(records))
}

func TestLoadRunsPostInit(t *testing.T) {
	core := New("load-post-init")
	item := declareItem(t, core, WithPostInit(func(r *Record) error {
		if r.GetString("name") == "B" {
			return errors.New("B is reserved")
		}
		return nil
	}))

	_, err := item.Load(cdtest.WriteRaw(t, "items.json", twoItems["items.json"]))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B is reserved")
	assert.Empty(t, core.ModelInstances())
}

func TestLoadReadsThroughPool(t *testing.T) {
	core := New("load-pool")
	item := declareItem(t, core)
	path := cdtest.WriteRaw(t, "items.json", twoItems["items.json"])

	_, err := item.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, core.Pool().Len())

	// Same file twice yields new records each time
	again, err := item.Load(path)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Len(t, core.ModelInstances(), 4)
}

func TestLoadAfterFileDeleted(t *testing.T) {
	core := New("load-deleted")
	item := declareItem(t, core)
	path := cdtest.WriteRaw(t, "items.json", twoItems["items.json"])

	_, err := item.Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, core.Pool().Len())

	require.NoError(t, os.Remove(path))
	records, err := item.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidPath))
	assert.Nil(t, records)
	assert.Equal(t, 0, core.Pool().Len())
	assert.Len(t, core.ModelInstances(), 2)
}

func TestLoadWithCustomStorage(t *testing.T) {
	registry := storage.NewRegistry()
	require.NoError(t, registry.Register(storage.Descriptor{
		Name:       "JSONStorage",
		Extensions: storage.JSONExtensions,
		New:        storage.NewJSONAdapter,
	}))

	core := New("custom-storage", WithStorage(registry))
	assert.Same(t, registry, core.Storage())
	item := declareItem(t, core)

	_, err := item.Load(cdtest.WriteRaw(t, "items.yaml", twoItems["items.yaml"]))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))

	records, err := item.Load(cdtest.WriteRaw(t, "items.json", twoItems["items.json"]))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadFrom(t *testing.T) {
	core := New("load-from")
	item := declareItem(t, core)

	adapter := storage.NewMemoryAdapter("scratch")
	require.NoError(t, adapter.Write(storage.RawTable{
		"Item": storage.Table{0: {"name": "A"}, 5: {"name": "B"}},
	}))

	records, err := item.LoadFrom(adapter)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(records))
}

func TestNewFromFile(t *testing.T) {
	core := New("new-from-file")
	item := declareItem(t, core)

	rec, err := item.NewFromFile(cdtest.WriteRaw(t, "items.json", twoItems["items.json"]))
	require.NoError(t, err)
	assert.Equal(t, "B", rec.GetString("name"))
	assert.Len(t, core.ModelInstances(), 2)

	_, err = item.NewFromFile(cdtest.WriteRaw(t, "none.json", `{"Item": []}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord))
}

func TestLoadDir(t *testing.T) {
	core := New("load-dir")
	item := declareItem(t, core)

	dir := t.TempDir()
	cdtest.WriteRawIn(t, dir, "b.yaml", "Item:\n  - name: from-yaml\n")
	cdtest.WriteRawIn(t, dir, "a.json", `{"Item": [{"name": "from-json"}]}`)
	cdtest.WriteRawIn(t, dir, "c.toml", "[[Item]]\nname = \"from-toml\"\n")
	cdtest.WriteRawIn(t, dir, "notes.txt", "not a raw")

	records, err := item.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-json", "from-yaml", "from-toml"}, names(records))

	core.ClearInstances()
	records, err = item.LoadDir(dir, "toml", ".yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"from-json"}, names(records))

	_, err = item.LoadDir(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errors.ErrInvalidPath))
}

func TestSave(t *testing.T) {
	for _, ext := range []string{"json", "yaml", "toml", "db"} {
		t.Run(ext, func(t *testing.T) {
			src := New("save-src-" + ext)
			item := declareItem(t, src)
			for _, n := range []string{"A", "B", "C"} {
				_, err := item.New(map[string]any{"name": n})
				require.NoError(t, err)
			}

			path := filepath.Join(t.TempDir(), "items."+ext)
			require.NoError(t, src.Save(item, path))

			dst := New("save-dst-" + ext)
			loaded, err := declareItem(t, dst).Load(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B", "C"}, names(loaded))
		})
	}
}

func TestSaveNullValues(t *testing.T) {
	fields := []FieldSpec{Field("name", String), Field("note", String).Default(nil)}

	for _, ext := range []string{"json", "yaml", "toml", "db"} {
		t.Run(ext, func(t *testing.T) {
			src := New("save-null-src-" + ext)
			item, err := src.DeclareModel("Item", fields)
			require.NoError(t, err)
			_, err = item.New(map[string]any{"name": "A"})
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "items."+ext)
			err = src.Save(item, path)
			if ext == "toml" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrMalformedRaw))
				return
			}
			require.NoError(t, err)

			dst := New("save-null-dst-" + ext)
			loadedType, err := dst.DeclareModel("Item", fields)
			require.NoError(t, err)
			loaded, err := loadedType.Load(path)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			note, err := loaded[0].Get("note")
			require.NoError(t, err)
			assert.Nil(t, note)
			assert.Contains(t, loaded[0].Values(), "note")
		})
	}
}

func TestSaveKeepsOtherTables(t *testing.T) {
	core := New("save-merge")
	item := declareItem(t, core)
	_, err := item.New(map[string]any{"name": "new"})
	require.NoError(t, err)

	path := cdtest.WriteRaw(t, "world.json", `{"Item": [{"name": "old"}, {"name": "older"}], "Zone": [{"id": 1}]}`)
	require.NoError(t, core.Save(item, path))

	raw, err := storage.NewJSONAdapter(path).Read()
	require.NoError(t, err)
	assert.Equal(t, storage.Table{0: {"name": "new"}}, raw["Item"])
	assert.Equal(t, storage.Table{0: {"id": int64(1)}}, raw["Zone"])
}

func TestSaveRejectsForeignType(t *testing.T) {
	core := New("save-foreign")
	other := New("other")
	item := declareItem(t, other)

	err := core.Save(item, filepath.Join(t.TempDir(), "items.json"))
	assert.True(t, errors.Is(err, errors.ErrTypeError))

	err = core.Save(ModelBase, filepath.Join(t.TempDir(), "items.json"))
	assert.True(t, errors.Is(err, errors.ErrTypeError))

	err = other.Save(item, filepath.Join(t.TempDir(), "items.txt"))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
}
