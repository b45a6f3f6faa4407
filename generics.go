package beans

import "reflect"

// Generic helpers as top-level functions (methods cannot have type parameters yet)

// Into copies src into dst and returns dst, or nil when either is absent.
func Into[T any](e *Engine, dst *T, src any, copyNulls bool) (*T, Report, error) {
	if dst == nil || isAbsent(src) {
		return nil, Report{}, nil
	}
	rep, err := e.Copy(dst, src, copyNulls)
	if err != nil {
		return nil, rep, err
	}
	return dst, rep, nil
}

// Clone returns a fresh *T holding a copy of src, or nil when src is nil.
func Clone[T any](e *Engine, src *T, copyNulls bool) (*T, Report, error) {
	if src == nil {
		return nil, Report{}, nil
	}
	out, rep, err := e.Clone(src, copyNulls)
	if err != nil {
		return nil, rep, err
	}
	return out.(*T), rep, nil
}

// AdaptTo constructs a fresh T and copy-alls src into it.
func AdaptTo[T any](e *Engine, src any) (*T, Report, error) {
	if isAbsent(src) {
		return nil, Report{}, nil
	}
	ptr, err := e.construct(reflect.TypeFor[T]())
	if err != nil {
		return nil, Report{}, err
	}
	rep, err := e.Copy(ptr.Interface(), src, true)
	if err != nil {
		return nil, rep, err
	}
	return ptr.Interface().(*T), rep, nil
}

// RemoveBlank normalizes obj in place and returns it for chaining.
func RemoveBlank[T any](e *Engine, obj *T) (*T, Report, error) {
	if obj == nil {
		return nil, Report{}, nil
	}
	rep, err := e.RemoveBlank(obj)
	return obj, rep, err
}
