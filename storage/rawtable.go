package storage

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/teranos/coredata/errors"
)

// Row is a single record: field name to raw value.
type Row map[string]any

// Table maps a 0-based row index to its record.
type Table map[int]Row

// RawTable is the canonical in-memory shape of a raw file.
type RawTable map[string]Table

// TableNames returns the table names in lexical order.
func (rt RawTable) TableNames() []string {
	names := make([]string, 0, len(rt))
	for name := range rt {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RowCount returns the total number of rows across all tables.
func (rt RawTable) RowCount() int {
	total := 0
	for _, table := range rt {
		total += len(table)
	}
	return total
}

// Indices returns the row indices in ascending order.
func (t Table) Indices() []int {
	indices := make([]int, 0, len(t))
	for idx := range t {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Rows returns the rows in index order.
func (t Table) Rows() []Row {
	rows := make([]Row, 0, len(t))
	for _, idx := range t.Indices() {
		rows = append(rows, t[idx])
	}
	return rows
}

// Clone copies the table structure and every row map. Field values are
// shared.
func (rt RawTable) Clone() RawTable {
	out := make(RawTable, len(rt))
	for name, table := range rt {
		copied := make(Table, len(table))
		for idx, row := range table {
			r := make(Row, len(row))
			for k, v := range row {
				r[k] = v
			}
			copied[idx] = r
		}
		out[name] = copied
	}
	return out
}

// Normalize returns a copy whose row indices are renumbered densely from 0,
// keeping their relative order.
func (rt RawTable) Normalize() RawTable {
	out := make(RawTable, len(rt))
	for name, table := range rt {
		dense := make(Table, len(table))
		for i, row := range table.Rows() {
			dense[i] = row
		}
		out[name] = dense
	}
	return out.Clone()
}

// Native converts the table into the on-disk shape: table name to the list
// of records in index order.
func (rt RawTable) Native() map[string][]map[string]any {
	native := make(map[string][]map[string]any, len(rt))
	for name, table := range rt {
		records := make([]map[string]any, 0, len(table))
		for _, row := range table.Rows() {
			records = append(records, map[string]any(row))
		}
		native[name] = records
	}
	return native
}

// FromNative converts a deserializer's output (table name to list of
// records) into a RawTable by enumerating each list. Field values are
// normalized so every format yields the same scalar types.
func FromNative(native map[string]any) (RawTable, error) {
	table := make(RawTable, len(native))
	for name, value := range native {
		if value == nil {
			table[name] = Table{}
			continue
		}

		items, err := cast.ToSliceE(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedRaw, "table %q is %T, expected a list of records", name, value)
		}

		rows := make(Table, len(items))
		for idx, item := range items {
			record, ok := normalizeValue(item).(map[string]any)
			if !ok {
				return nil, errors.Wrapf(errors.ErrMalformedRaw, "table %q row %d is %T, expected a mapping", name, idx, item)
			}
			rows[idx] = Row(record)
		}
		table[name] = rows
	}
	return table, nil
}
