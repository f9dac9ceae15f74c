// Package datacore registers declarative record types and loads raw files
// into records of those types.
//
// A DataCore owns two namespaces, Models and Templates, each split into
// named groups. Types are declared explicitly and registered on the spot:
//
//	core := datacore.New("game")
//	items, err := core.DeclareModel("Item", []datacore.FieldSpec{
//	    datacore.Field("name", datacore.String),
//	    datacore.Field("damage", datacore.Int).Default(0),
//	}, datacore.WithGroup("equipment"))
//
//	records, err := items.Load("raws/items.yaml")
//
// Models are instantiable. The Template base is abstract and only declared
// templates can be instantiated. Every record built through New or a load is
// appended to its core's instance collection.
//
// A DataCore is not safe for concurrent mutation; callers serialize
// declarations and loads. The process-wide default core and the named core
// directory are guarded.
package datacore
