package datacore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/teranos/coredata/errors"
)

// Registered types come back as the same value from every lookup.
func TestRegistryIdentityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		core := New("identity")
		ns := Namespace(rapid.IntRange(int(Models), int(Templates)).Draw(t, "namespace"))
		group := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "group")
		name := rapid.StringMatching(`[A-Z][a-zA-Z0-9]{0,11}`).Draw(t, "name")

		rt, err := NewRecordType(ns, name, []FieldSpec{Field("value", Any)})
		require.NoError(t, err)
		require.NoError(t, core.Register(ns, group, name, rt, true))

		got, err := core.GetType(ns, name, None[*RecordType]())
		require.NoError(t, err)
		require.Same(t, rt, got)
		require.Same(t, rt, TypeOr(core, ns, name, false))

		g, err := core.Group(ns, group)
		require.NoError(t, err)
		inGroup, ok := g.Get(name)
		require.True(t, ok)
		require.Same(t, rt, inGroup)
	})
}

// A second registration under a taken (group, name) never disturbs the first.
func TestRegistryDuplicateProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		core := New("duplicates")
		group := rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "group")
		drawn := rapid.SliceOfN(rapid.StringMatching(`[A-C]`), 1, 10).Draw(t, "names")

		first := map[string]*RecordType{}
		for _, name := range drawn {
			rt, err := NewRecordType(Models, name, []FieldSpec{Field("value", Any)})
			require.NoError(t, err)

			err = core.Register(Models, group, name, rt, true)
			if _, seen := first[name]; seen {
				require.True(t, errors.Is(err, errors.ErrDuplicatedTypeName))
				continue
			}
			require.NoError(t, err)
			first[name] = rt
		}

		for name, rt := range first {
			got, err := core.GetModelType(name)
			require.NoError(t, err)
			require.Same(t, rt, got)
		}
		g, err := core.Group(Models, group)
		require.NoError(t, err)
		require.Equal(t, len(first), g.Len())
	})
}

// Saved records load back with the same values, in the same order.
func TestSaveLoadProperty(t *testing.T) {
	dir := t.TempDir()
	run := 0

	rapid.Check(t, func(t *rapid.T) {
		run++
		ext := rapid.SampledFrom([]string{"json", "yaml", "toml", "db"}).Draw(t, "ext")
		path := filepath.Join(dir, fmt.Sprintf("records%d.%s", run, ext))

		fields := []FieldSpec{
			Field("name", String),
			Field("count", Int),
			Field("ratio", Float),
			Field("enabled", Bool),
		}
		src := New("save")
		srcType, err := src.DeclareModel("Entry", fields)
		require.NoError(t, err)

		n := rapid.IntRange(0, 6).Draw(t, "records")
		var want []map[string]any
		for i := 0; i < n; i++ {
			values := map[string]any{
				"name":    rapid.StringMatching(`[a-z][a-z0-9_]{0,11}`).Draw(t, "name"),
				"count":   rapid.Int64Range(-1_000_000, 1_000_000).Draw(t, "count"),
				"ratio":   float64(rapid.IntRange(-1000, 1000).Draw(t, "ratio")) + 0.25,
				"enabled": rapid.Bool().Draw(t, "enabled"),
			}
			rec, err := srcType.New(values)
			require.NoError(t, err)
			want = append(want, rec.Values())
		}
		require.NoError(t, src.Save(srcType, path))

		dst := New("load")
		dstType, err := dst.DeclareModel("Entry", fields)
		require.NoError(t, err)
		loaded, err := dstType.Load(path)
		require.NoError(t, err)

		require.Len(t, loaded, n)
		for i, rec := range loaded {
			require.Equal(t, want[i], rec.Values())
		}
	})
}
