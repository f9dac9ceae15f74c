package datacore

import (
	"time"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
	"github.com/teranos/coredata/storage"
)

// loadable fails with ErrTypeError unless rt has a concrete record shape.
func (rt *RecordType) loadable() error {
	switch {
	case rt == nil:
		return errors.Wrap(errors.ErrTypeError, "cannot load raws through a nil type")
	case rt.base:
		return errors.WithHint(
			errors.Wrapf(errors.ErrTypeError, "cannot load raws through the %s base", rt.name),
			"declare a type with fields and load through it",
		)
	case len(rt.fields) == 0:
		return errors.Wrapf(errors.ErrTypeError, "%s declares no fields", rt.name)
	}
	return nil
}

// Load builds one record per row of the type's table in the raw file at
// path, in file order, and returns them.
//
// The path must exist (ErrInvalidPath) and its extension must be handled by
// the core's storage registry (ErrUnsupportedFormat). Either every row
// becomes a record or none does.
func (rt *RecordType) Load(path string) ([]*Record, error) {
	if err := rt.loadable(); err != nil {
		return nil, err
	}

	adapter, err := rt.Core().pool.Get(path)
	if err != nil {
		return nil, err
	}
	return rt.LoadFrom(adapter)
}

// LoadFrom is Load over an already opened adapter.
func (rt *RecordType) LoadFrom(adapter storage.Adapter) ([]*Record, error) {
	if err := rt.loadable(); err != nil {
		return nil, err
	}

	start := time.Now()
	core := rt.Core()

	raw, err := adapter.Read()
	if err != nil {
		return nil, err
	}

	table, ok := raw[rt.Table()]
	if !ok {
		core.logger.Debugw("Raw file has no table for type",
			logger.FieldType, rt.name,
			logger.FieldTable, rt.Table(),
			logger.FieldPath, adapter.Path())
		return []*Record{}, nil
	}

	records := make([]*Record, 0, len(table))
	for _, idx := range table.Indices() {
		rec, err := rt.build(table[idx])
		if err != nil {
			return nil, errors.WithDetailf(
				errors.Wrapf(err, "table %q row %d", rt.Table(), idx),
				"path: %s", adapter.Path())
		}
		records = append(records, rec)
	}
	core.appendInstances(rt.namespace, records...)

	core.logger.Debugw("Loaded raw",
		logger.FieldType, rt.name,
		logger.FieldTable, rt.Table(),
		logger.FieldPath, adapter.Path(),
		logger.FieldCount, len(records),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return records, nil
}

// NewFromFile loads the raw file at path and returns the last record built.
// Every row still becomes a record in the core.
func (rt *RecordType) NewFromFile(path string) (*Record, error) {
	records, err := rt.Load(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrInvalidRecord, "no %q rows to build a %s from", rt.Table(), rt.name),
			"path: %s", path)
	}
	return records[len(records)-1], nil
}

// LoadDir loads every raw file directly inside dir, in lexical order,
// skipping the excluded extensions.
func (rt *RecordType) LoadDir(dir string, excluded ...string) ([]*Record, error) {
	if err := rt.loadable(); err != nil {
		return nil, err
	}

	files, err := rt.Core().storage.Glob(dir, excluded)
	if err != nil {
		return nil, err
	}

	var all []*Record
	for _, file := range files {
		records, err := rt.Load(file)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// Save writes the live records of rt to the raw file at path, replacing the
// type's table and keeping any other tables already in the file.
func (c *DataCore) Save(rt *RecordType, path string) error {
	if err := rt.loadable(); err != nil {
		return err
	}
	if rt.core != c {
		return errors.Wrapf(errors.ErrTypeError, "%s is not registered in core %q", rt.name, c.name)
	}

	var (
		adapter storage.Adapter
		err     error
	)
	if _, statErr := storage.ValidatePath(path); statErr == nil {
		adapter, err = c.pool.Get(path)
	} else {
		adapter, err = c.storage.Create(path)
	}
	if err != nil {
		return err
	}

	existing, err := adapter.Read()
	if err != nil {
		return err
	}

	records := c.InstancesOf(rt)
	data := existing.Clone()
	table := make(storage.Table, len(records))
	for i, rec := range records {
		table[i] = rec.Row()
	}
	data[rt.Table()] = table

	if err := adapter.Write(data); err != nil {
		return err
	}
	c.logger.Debugw("Saved raw",
		logger.FieldType, rt.name,
		logger.FieldTable, rt.Table(),
		logger.FieldPath, path,
		logger.FieldCount, len(records))
	return nil
}
