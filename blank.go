package beans

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/Station-Manager/errors"
)

// RemoveBlank sets to null every readable and writable field of obj whose text
// rendering is empty after trimming whitespace. obj must be a pointer to struct;
// an absent obj is a no-op. Non-blank values are never altered. Fields without a
// text rendering are left alone. Failures on single fields are collected in the
// Report and the remaining fields are still processed.
func (e *Engine) RemoveBlank(obj any) (Report, error) {
	const op errors.Op = "beans.Engine.RemoveBlank"
	if isAbsent(obj) {
		return Report{}, nil
	}
	pv := reflect.ValueOf(obj)
	if pv.Kind() != reflect.Ptr {
		return Report{}, &InvalidArgumentError{Arg: "obj", Err: errors.New(op).Errorf("must be a pointer, got %T", obj)}
	}
	v := indirect(pv)
	if !v.IsValid() {
		return Report{}, nil
	}
	ix, err := e.cache.Index(v.Type())
	if err != nil {
		return Report{}, err
	}
	var rep Report
	for i := range ix.accessors {
		a := &ix.accessors[i]
		if !a.Readable() || !a.Writable() {
			continue
		}
		fv, err := a.Getter(v)
		if err != nil {
			e.issue(&rep, ix.typ, a.Name, -1, OpRead, err)
			continue
		}
		if isNull(fv) {
			continue
		}
		text, ok, err := textOf(fv)
		if err != nil {
			e.issue(&rep, ix.typ, a.Name, -1, OpRead, err)
			continue
		}
		if !ok || strings.TrimSpace(text) != "" {
			continue
		}
		if err := a.Setter(v, reflect.Value{}); err != nil {
			e.issue(&rep, ix.typ, a.Name, -1, OpWrite, err)
		}
	}
	return rep, nil
}

// textOf renders v as text: string kinds directly, then fmt.Stringer, then
// encoding.TextMarshaler. ok is false when v has no rendering.
func textOf(v reflect.Value) (text string, ok bool, err error) {
	const op errors.Op = "beans.textOf"
	defer func() {
		if r := recover(); r != nil {
			text, ok, err = "", false, errors.New(op).Errorf("rendering %s: %v", v.Type(), r)
		}
	}()
	if v.Kind() == reflect.String {
		return v.String(), true, nil
	}
	if v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.String {
		return v.Elem().String(), true, nil
	}
	if !v.CanInterface() {
		return "", false, nil
	}
	switch x := v.Interface().(type) {
	case fmt.Stringer:
		return x.String(), true, nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return "", false, err
		}
		return string(b), true, nil
	}
	return "", false, nil
}
