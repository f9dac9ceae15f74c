package datacore

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/storage"
)

// Record is one instance of a RecordType.
type Record struct {
	id     uuid.UUID
	rt     *RecordType
	values map[string]any
}

func newRecord(rt *RecordType) *Record {
	return &Record{
		id:     uuid.New(),
		rt:     rt,
		values: make(map[string]any, len(rt.fields)),
	}
}

// ID uniquely identifies the record within the process.
func (r *Record) ID() uuid.UUID { return r.id }

// Type returns the record's type.
func (r *Record) Type() *RecordType { return r.rt }

// Get returns the value of a declared field.
func (r *Record) Get(field string) (any, error) {
	if _, ok := r.rt.index[field]; !ok {
		return nil, errors.Wrapf(errors.ErrInvalidRecord, "%s has no field %q", r.rt.name, field)
	}
	return r.values[field], nil
}

// Set coerces v to the field's kind and stores it.
func (r *Record) Set(field string, v any) error {
	idx, ok := r.rt.index[field]
	if !ok {
		return errors.Wrapf(errors.ErrInvalidRecord, "%s has no field %q", r.rt.name, field)
	}
	coerced, err := r.rt.fields[idx].coerce(v)
	if err != nil {
		return err
	}
	r.values[field] = coerced
	return nil
}

// GetString returns a field as a string; missing fields are empty.
func (r *Record) GetString(field string) string { return cast.ToString(r.values[field]) }

// GetInt returns a field as an int64.
func (r *Record) GetInt(field string) int64 { return cast.ToInt64(r.values[field]) }

// GetFloat returns a field as a float64.
func (r *Record) GetFloat(field string) float64 { return cast.ToFloat64(r.values[field]) }

// GetBool returns a field as a bool.
func (r *Record) GetBool(field string) bool { return cast.ToBool(r.values[field]) }

// Values returns a copy of the field values.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Row returns the record as a raw row.
func (r *Record) Row() storage.Row {
	return storage.Row(r.Values())
}

// Decode copies the record's fields into out, a pointer to a struct or map.
// Struct fields are matched by their `mapstructure` tag or, failing that,
// case-insensitively by name.
func (r *Record) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(r.values); err != nil {
		return errors.Wrapf(err, "failed to decode %s record", r.rt.name)
	}
	return nil
}

// String formats the record as Name(field=value, ...) in field order.
func (r *Record) String() string {
	parts := make([]string, 0, len(r.rt.fields))
	for _, f := range r.rt.fields {
		parts = append(parts, fmt.Sprintf("%s=%#v", f.name, r.values[f.name]))
	}
	return fmt.Sprintf("%s(%s)", r.rt.name, strings.Join(parts, ", "))
}
