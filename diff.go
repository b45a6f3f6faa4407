package beans

import (
	"bytes"
	"database/sql/driver"
	"reflect"

	boilertypes "github.com/aarondl/sqlboiler/v4/types"
)

var (
	valuerType     = reflect.TypeFor[driver.Valuer]()
	boilerJSONType = reflect.TypeFor[boilertypes.JSON]()
)

// IsNull reports whether v holds no value: a nil pointer, interface, map, slice,
// func or chan, a sqlboiler JSON that is empty or the literal null, or a
// driver.Valuer (every github.com/aarondl/null type) whose Value is nil.
func IsNull(v any) bool { return isNull(reflect.ValueOf(v)) }

func isNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return true
		}
	}
	if v.Type() == boilerJSONType {
		b := bytes.TrimSpace(v.Bytes())
		return len(b) == 0 || bytes.Equal(b, []byte("null"))
	}
	if v.CanInterface() && v.Type().Implements(valuerType) {
		return valuerIsNull(v.Interface().(driver.Valuer))
	}
	return false
}

func valuerIsNull(vr driver.Valuer) (null bool) {
	defer func() {
		if recover() != nil {
			null = false
		}
	}()
	dv, err := vr.Value()
	return err == nil && dv == nil
}

// FindNullFieldNames returns, in declaration order, the names of obj's readable
// fields whose current value is null. An absent obj yields nil.
func (e *Engine) FindNullFieldNames(obj any) ([]string, error) {
	v := indirect(reflect.ValueOf(obj))
	if !v.IsValid() {
		return nil, nil
	}
	ix, err := e.cache.Index(v.Type())
	if err != nil {
		return nil, err
	}
	return e.nullFieldNames(v, ix), nil
}

// ValuedAccessors returns the readable accessors of obj whose current value is
// not null, or nil when there are none.
func (e *Engine) ValuedAccessors(obj any) ([]Accessor, error) {
	v := indirect(reflect.ValueOf(obj))
	if !v.IsValid() {
		return nil, nil
	}
	ix, err := e.cache.Index(v.Type())
	if err != nil {
		return nil, err
	}
	var out []Accessor
	for i := range ix.accessors {
		a := &ix.accessors[i]
		if !a.Readable() {
			continue
		}
		fv, err := a.Getter(v)
		if err != nil {
			e.issue(&Report{}, ix.typ, a.Name, -1, OpRead, err)
			continue
		}
		if !isNull(fv) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// nullFieldNames reads every readable field of v. Fields whose getter fails are
// logged and left out.
func (e *Engine) nullFieldNames(v reflect.Value, ix *Index) []string {
	var names []string
	for i := range ix.accessors {
		a := &ix.accessors[i]
		if !a.Readable() {
			continue
		}
		fv, err := a.Getter(v)
		if err != nil {
			e.issue(&Report{}, ix.typ, a.Name, -1, OpRead, err)
			continue
		}
		if isNull(fv) {
			names = append(names, a.Name)
		}
	}
	return names
}
