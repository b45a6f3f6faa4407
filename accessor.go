package beans

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/Station-Manager/errors"
)

// Getter reads one field from obj, a struct value. An invalid result means the
// field is absent, for example when it is reached through a nil embedded pointer.
type Getter func(obj reflect.Value) (reflect.Value, error)

// Setter writes v into obj, an addressable struct value. An invalid v writes the
// field's null (its zero value).
type Setter func(obj, v reflect.Value) error

// Accessor binds a named field of a struct type to its getter and setter.
// Setter is nil for read-only fields. Accessors are immutable once built.
type Accessor struct {
	Name     string
	JSONName string
	Type     reflect.Type
	Getter   Getter
	Setter   Setter
}

// Readable reports whether the accessor has a getter.
func (a Accessor) Readable() bool { return a.Getter != nil }

// Writable reports whether the accessor has a setter.
func (a Accessor) Writable() bool { return a.Setter != nil }

// Get reads the field from obj (a struct or a pointer to one). Absent values are returned as nil.
func (a Accessor) Get(obj any) (any, error) {
	const op errors.Op = "beans.Accessor.Get"
	if a.Getter == nil {
		return nil, errors.New(op).Errorf("field %s has no getter", a.Name)
	}
	v := indirect(reflect.ValueOf(obj))
	if v.Kind() != reflect.Struct {
		return nil, errors.New(op).Errorf("expected struct, got %T", obj)
	}
	out, err := a.Getter(v)
	if err != nil {
		return nil, err
	}
	return valueInterface(out), nil
}

// Set writes value into obj, which must be a pointer to struct. A nil value writes the field's null.
func (a Accessor) Set(obj any, value any) error {
	const op errors.Op = "beans.Accessor.Set"
	if a.Setter == nil {
		return errors.New(op).Errorf("field %s is read-only", a.Name)
	}
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.New(op).Errorf("expected pointer to struct, got %T", obj)
	}
	return a.Setter(v.Elem(), reflect.ValueOf(value))
}

// Index is the ordered accessor table of one struct type. Embedded structs are
// flattened in place, following Go's field promotion rules.
type Index struct {
	typ       reflect.Type
	accessors []Accessor
	byName    map[string]int
	byJSON    map[string]int
	byFold    map[string]int
}

// Type returns the struct type the index describes.
func (ix *Index) Type() reflect.Type { return ix.typ }

// Len returns the number of accessors.
func (ix *Index) Len() int { return len(ix.accessors) }

// At returns the i-th accessor in declaration order.
func (ix *Index) At(i int) Accessor { return ix.accessors[i] }

// Accessors returns a copy of the accessor table.
func (ix *Index) Accessors() []Accessor { return slices.Clone(ix.accessors) }

// Names returns the field names in declaration order.
func (ix *Index) Names() []string {
	names := make([]string, len(ix.accessors))
	for i := range ix.accessors {
		names[i] = ix.accessors[i].Name
	}
	return names
}

// Lookup finds an accessor by field name.
func (ix *Index) Lookup(name string) (Accessor, bool) {
	if i, ok := ix.byName[name]; ok {
		return ix.accessors[i], true
	}
	return Accessor{}, false
}

// LookupJSON finds an accessor by its json tag name.
func (ix *Index) LookupJSON(name string) (Accessor, bool) {
	if i, ok := ix.byJSON[name]; ok {
		return ix.accessors[i], true
	}
	return Accessor{}, false
}

func (ix *Index) lookupFold(name string) (Accessor, bool) {
	if i, ok := ix.byFold[strings.ToLower(name)]; ok {
		return ix.accessors[i], true
	}
	return Accessor{}, false
}

type fieldInfo struct {
	index    []int
	depth    int
	name     string
	jsonName string
	typ      reflect.Type
	readonly bool
}

func buildIndex(typ reflect.Type) (*Index, error) {
	const op errors.Op = "beans.buildIndex"
	if typ.Kind() != reflect.Struct {
		return nil, &IntrospectionError{Type: typ, Err: errors.New(op).Errorf("kind %s is not a struct", typ.Kind())}
	}
	var found []fieldInfo
	if err := collectFields(typ, nil, map[reflect.Type]bool{typ: true}, &found); err != nil {
		return nil, &IntrospectionError{Type: typ, Err: errors.New(op).Err(err)}
	}
	fields := resolvePromotion(found)
	ix := &Index{
		typ:       typ,
		accessors: make([]Accessor, 0, len(fields)),
		byName:    make(map[string]int, len(fields)),
		byJSON:    make(map[string]int, len(fields)),
		byFold:    make(map[string]int, len(fields)),
	}
	for _, fi := range fields {
		acc := Accessor{
			Name:     fi.name,
			JSONName: fi.jsonName,
			Type:     fi.typ,
			Getter:   fieldGetter(fi.index),
		}
		if !fi.readonly {
			acc.Setter = fieldSetter(fi.index, fi.typ)
		}
		i := len(ix.accessors)
		ix.accessors = append(ix.accessors, acc)
		ix.byName[fi.name] = i
		if fi.jsonName != "" {
			if _, dup := ix.byJSON[fi.jsonName]; !dup {
				ix.byJSON[fi.jsonName] = i
			}
		}
		if _, dup := ix.byFold[strings.ToLower(fi.name)]; !dup {
			ix.byFold[strings.ToLower(fi.name)] = i
		}
	}
	return ix, nil
}

// collectFields walks typ depth-first. seen holds the struct types on the current
// embedding path and stops recursive embeddings.
func collectFields(typ reflect.Type, prefix []int, seen map[reflect.Type]bool, out *[]fieldInfo) error {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		idx := append(append([]int(nil), prefix...), i)
		ignore, readonly, err := parseBeanTag(f)
		if err != nil {
			return err
		}
		if ignore {
			continue
		}
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if seen[ft] {
					continue
				}
				seen[ft] = true
				err := collectFields(ft, idx, seen, out)
				delete(seen, ft)
				if err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		*out = append(*out, fieldInfo{
			index:    idx,
			depth:    len(prefix),
			name:     f.Name,
			jsonName: jsonName(f),
			typ:      f.Type,
			readonly: readonly,
		})
	}
	return nil
}

// resolvePromotion keeps, for each name, the shallowest field. Names that are
// ambiguous at their shallowest depth are dropped, as the compiler would.
func resolvePromotion(found []fieldInfo) []fieldInfo {
	minDepth := make(map[string]int, len(found))
	count := make(map[string]int, len(found))
	for _, fi := range found {
		d, ok := minDepth[fi.name]
		switch {
		case !ok || fi.depth < d:
			minDepth[fi.name] = fi.depth
			count[fi.name] = 1
		case fi.depth == d:
			count[fi.name]++
		}
	}
	out := make([]fieldInfo, 0, len(found))
	for _, fi := range found {
		if fi.depth == minDepth[fi.name] && count[fi.name] == 1 {
			out = append(out, fi)
		}
	}
	return out
}

func parseBeanTag(f reflect.StructField) (ignore, readonly bool, err error) {
	const op errors.Op = "beans.parseBeanTag"
	tag, ok := f.Tag.Lookup("bean")
	if !ok {
		return false, false, nil
	}
	switch tag {
	case "-", "ignore":
		return true, false, nil
	case "readonly":
		return false, true, nil
	}
	return false, false, errors.New(op).Errorf("field %s: unknown bean tag %q", f.Name, tag)
}

func jsonName(f reflect.StructField) string {
	jt, ok := f.Tag.Lookup("json")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(jt, ','); i >= 0 {
		jt = jt[:i]
	}
	if jt == "-" {
		return ""
	}
	return jt
}

func fieldGetter(index []int) Getter {
	return func(obj reflect.Value) (reflect.Value, error) {
		v, ok := safeFieldByIndex(obj, index)
		if !ok {
			return reflect.Value{}, nil
		}
		return v, nil
	}
}

func fieldSetter(index []int, typ reflect.Type) Setter {
	return func(obj, v reflect.Value) (err error) {
		const op errors.Op = "beans.fieldSetter"
		defer func() {
			if r := recover(); r != nil {
				err = errors.New(op).Errorf("%v", r)
			}
		}()
		f, err := allocFieldByIndex(obj, index)
		if err != nil {
			return err
		}
		if !f.CanSet() {
			return errors.New(op).Errorf("field of type %s is not settable", typ)
		}
		if !v.IsValid() {
			f.Set(reflect.Zero(typ))
			return nil
		}
		vt := v.Type()
		switch {
		case vt.AssignableTo(typ):
			f.Set(v)
		case transferable(vt, typ):
			f.Set(v.Convert(typ))
		default:
			return errors.New(op).Errorf("cannot assign %s to %s", vt, typ)
		}
		return nil
	}
}

// safeFieldByIndex is FieldByIndex that reports false instead of panicking on a nil embedded pointer.
func safeFieldByIndex(val reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return reflect.Value{}, false
			}
			val = val.Elem()
		}
		val = val.Field(x)
	}
	return val, true
}

// allocFieldByIndex is FieldByIndex that allocates nil embedded pointers on the way.
func allocFieldByIndex(val reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && val.Kind() == reflect.Ptr {
			if val.IsNil() {
				if !val.CanSet() {
					return reflect.Value{}, fmt.Errorf("embedded %s is nil and cannot be allocated", val.Type())
				}
				val.Set(reflect.New(val.Type().Elem()))
			}
			val = val.Elem()
		}
		val = val.Field(x)
	}
	return val, nil
}

// MethodAccessor builds a read-only accessor that reads a field through a getter
// method taken from the pointer method set of the owning type.
func MethodAccessor(name string, typ reflect.Type, m reflect.Method) Accessor {
	return Accessor{
		Name: name,
		Type: typ,
		Getter: func(obj reflect.Value) (out reflect.Value, err error) {
			const op errors.Op = "beans.MethodAccessor"
			defer func() {
				if r := recover(); r != nil {
					err = errors.New(op).Errorf("%s: %v", m.Name, r)
				}
			}()
			recv := obj
			if recv.Kind() != reflect.Ptr {
				if recv.CanAddr() {
					recv = recv.Addr()
				} else {
					p := reflect.New(recv.Type())
					p.Elem().Set(recv)
					recv = p
				}
			}
			return m.Func.Call([]reflect.Value{recv})[0], nil
		},
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func valueInterface(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
