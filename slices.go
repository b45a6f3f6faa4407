package beans

import (
	"reflect"

	"github.com/Station-Manager/errors"
)

// CopySlice builds a new slice holding a fresh copy-all instance per element of src.
// Instances are of the runtime type of src's first element. A nil src yields nil and
// an empty src yields an empty, non-nil slice. Elements that cannot be constructed
// or copied are left out and reported with their index.
func CopySlice[T any](e *Engine, src []T) ([]T, Report) {
	if src == nil {
		return nil, Report{}
	}
	if len(src) == 0 {
		return []T{}, Report{}
	}
	elem := reflect.TypeFor[T]()
	if elem.Kind() == reflect.Interface {
		first := reflect.ValueOf(&src[0]).Elem()
		if first.IsNil() {
			elem = nil
		} else {
			elem = first.Elem().Type()
		}
	}
	return copyElements[T](e, reflect.ValueOf(src), elem)
}

// CopySliceTo builds a []T with a fresh copy-all instance of T per element of src.
// nil and empty inputs behave as in CopySlice.
func CopySliceTo[T any, S any](e *Engine, src []S) ([]T, Report) {
	if src == nil {
		return nil, Report{}
	}
	if len(src) == 0 {
		return []T{}, Report{}
	}
	return copyElements[T](e, reflect.ValueOf(src), reflect.TypeFor[T]())
}

// copyElements constructs elem (a struct or pointer to struct type) once per
// element of src and stores it into the result as elem.
func copyElements[T any](e *Engine, src reflect.Value, elem reflect.Type) ([]T, Report) {
	const op errors.Op = "beans.copyElements"
	var rep Report
	out := make([]T, 0, src.Len())
	if elem == nil {
		err := &ConstructionError{Err: errors.New(op).Msg("first element is nil, element type unknown")}
		for i := 0; i < src.Len(); i++ {
			e.issue(&rep, nil, "", i, OpConstruct, err)
		}
		return out, rep
	}
	base := elem
	isPtr := elem.Kind() == reflect.Ptr
	if isPtr {
		base = elem.Elem()
	}
	for i := 0; i < src.Len(); i++ {
		ptr, err := e.construct(base)
		if err != nil {
			e.issue(&rep, base, "", i, OpConstruct, err)
			continue
		}
		if sv := indirect(src.Index(i)); sv.IsValid() {
			crep, err := e.copyStruct(ptr.Elem(), sv, true)
			if err != nil {
				e.issue(&rep, base, "", i, OpCopy, err)
				continue
			}
			rep.merge(crep)
		}
		item := ptr
		if !isPtr {
			item = ptr.Elem()
		}
		t, ok := item.Interface().(T)
		if !ok {
			e.issue(&rep, base, "", i, OpConstruct, errors.New(op).Errorf("%s does not fit the slice element type", item.Type()))
			continue
		}
		out = append(out, t)
	}
	return out, rep
}
