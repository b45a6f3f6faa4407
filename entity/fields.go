package entity

import (
	"reflect"
	"slices"

	"github.com/Station-Manager/beans"
	"github.com/Station-Manager/errors"
)

// Fields is the business view of one entity type: field name to getter accessor.
// It is built once per type and never modified.
type Fields struct {
	typ    reflect.Type
	names  []string
	byName map[string]beans.Accessor
}

// Type returns the entity type.
func (f *Fields) Type() reflect.Type { return f.typ }

// Len returns the number of business fields.
func (f *Fields) Len() int { return len(f.names) }

// Names returns the business field names, parent fields first, in declaration order.
func (f *Fields) Names() []string { return slices.Clone(f.names) }

// Get returns the accessor of a business field.
func (f *Fields) Get(name string) (beans.Accessor, bool) {
	a, ok := f.byName[name]
	return a, ok
}

// Values reads every business field of obj, an instance of the entity type or a pointer to one.
func (f *Fields) Values(obj any) (map[string]any, error) {
	const op errors.Op = "entity.Fields.Values"
	v := reflect.ValueOf(obj)
	for v.IsValid() && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New(op).Msg("instance is nil")
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != f.typ {
		return nil, errors.New(op).Errorf("expected %s, got %T", f.typ, obj)
	}
	out := make(map[string]any, len(f.names))
	for _, n := range f.names {
		a := f.byName[n]
		fv, err := a.Getter(v)
		if err != nil {
			return nil, errors.New(op).Err(err)
		}
		if fv.IsValid() && fv.CanInterface() {
			out[n] = fv.Interface()
		} else {
			out[n] = nil
		}
	}
	return out, nil
}
