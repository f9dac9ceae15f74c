// Package storage converts raw data files into the canonical RawTable shape
// and back.
//
// On disk a raw file maps table names to ordered lists of records:
//
//	items:
//	  - name: sword
//	    damage: 10
//	  - name: shield
//
// In memory the same file is a RawTable keyed by table name and then by the
// 0-based position of each record in its list:
//
//	RawTable{"items": Table{0: Row{"name": "sword", "damage": 10}, 1: Row{"name": "shield"}}}
//
// Adapters do the conversion for one format each. Descriptors advertise which
// extensions an adapter handles and the Registry resolves a path or bare
// extension to the adapter responsible for it. The Pool keeps opened adapters
// warm per path and the Watcher evicts them when their files change.
package storage
