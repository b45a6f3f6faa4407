package beans

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/Station-Manager/errors"
	"go.uber.org/zap"
)

// ConverterFunc converts a source field value before it is written to the destination.
// Returning nil writes the destination field's null.
type ConverterFunc func(src any) (any, error)

// ConstructorFunc builds a fresh instance of a registered type, returned as T or *T.
type ConstructorFunc func() (any, error)

// ComposeConverters chains multiple ConverterFunc instances left-to-right.
// If any converter returns an error it aborts.
// Nil output propagates immediately.
func ComposeConverters(fns ...ConverterFunc) ConverterFunc {
	return func(src any) (any, error) {
		cur := src
		for _, fn := range fns {
			out, err := fn(cur)
			if err != nil {
				return nil, err
			}
			if out == nil {
				return nil, nil
			}
			cur = out
		}
		return cur, nil
	}
}

// MapString returns a ConverterFunc applying f when src is a string; otherwise returns src unchanged.
func MapString(f func(string) string) ConverterFunc {
	return func(src any) (any, error) {
		if s, ok := src.(string); ok {
			return f(s), nil
		}
		return src, nil
	}
}

// Options control how an Engine matches fields and where it logs and caches.
type Options struct {
	MatchJSONNames       bool        // when true, unmatched fields fall back to json tag names
	CaseInsensitiveNames bool        // when true, unmatched fields fall back to case-insensitive names
	Logger               *zap.Logger // receives per-field failures; nil means no logging
	Cache                *Cache      // shared metadata cache; nil means a private one
}

// Option configures an Engine.
type Option func(*Options)

// WithJSONNameMatching enables json tag name fallback when matching fields.
func WithJSONNameMatching(v bool) Option { return func(o *Options) { o.MatchJSONNames = v } }

// WithCaseInsensitiveNames enables case-insensitive fallback when matching fields.
func WithCaseInsensitiveNames(v bool) Option { return func(o *Options) { o.CaseInsensitiveNames = v } }

// WithLogger sets the logger that receives per-field failures and cache builds.
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithCache makes the Engine use c instead of a private metadata cache.
func WithCache(c *Cache) Option { return func(o *Options) { o.Cache = c } }

// registry stores converters and constructors and is swapped atomically (copy-on-write).
type registry struct {
	global       map[string]ConverterFunc
	byPair       map[[2]reflect.Type]map[string]ConverterFunc // [srcType, dstType]
	constructors map[reflect.Type]ConstructorFunc
}

func newRegistry() *registry {
	return &registry{
		global:       make(map[string]ConverterFunc),
		byPair:       make(map[[2]reflect.Type]map[string]ConverterFunc),
		constructors: make(map[reflect.Type]ConstructorFunc),
	}
}

func (r *registry) clone() *registry {
	n := &registry{
		global:       make(map[string]ConverterFunc, len(r.global)+1),
		byPair:       make(map[[2]reflect.Type]map[string]ConverterFunc, len(r.byPair)+1),
		constructors: make(map[reflect.Type]ConstructorFunc, len(r.constructors)+1),
	}
	for k, v := range r.global {
		n.global[k] = v
	}
	for k, v := range r.byPair {
		m := make(map[string]ConverterFunc, len(v)+1)
		for fk, fv := range v {
			m[fk] = fv
		}
		n.byPair[k] = m
	}
	for k, v := range r.constructors {
		n.constructors[k] = v
	}
	return n
}

// converter returns the converter for field, pair scope first.
func (r *registry) converter(src, dst reflect.Type, field string) ConverterFunc {
	if fn := r.byPair[[2]reflect.Type{src, dst}][field]; fn != nil {
		return fn
	}
	return r.global[field]
}

// Engine copies, diffs and normalizes structs through cached accessor indexes.
// It is safe for concurrent use; registrations may run alongside copies.
type Engine struct {
	registry atomic.Value // holds *registry
	writeMu  sync.Mutex   // serializes registry swaps
	cache    *Cache
	logger   *zap.Logger
	options  Options
}

// New creates an Engine with default options.
func New() *Engine { return NewWithOptions() }

// NewWithOptions creates a new Engine with provided options.
func NewWithOptions(opts ...Option) *Engine {
	var o Options
	for _, f := range opts {
		f(&o)
	}
	e := &Engine{options: o, logger: o.Logger, cache: o.Cache}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.cache == nil {
		e.cache = NewCache(WithCacheLogger(e.logger))
	}
	e.registry.Store(newRegistry())
	return e
}

// Cache returns the metadata cache used by the engine.
func (e *Engine) Cache() *Cache { return e.cache }

func (e *Engine) loadRegistry() *registry { return e.registry.Load().(*registry) }

func (e *Engine) update(fn func(*registry)) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	n := e.loadRegistry().clone()
	fn(n)
	e.registry.Store(n)
}

// RegisterConverter adds a global field converter (applies to any src/dst containing fieldName).
func (e *Engine) RegisterConverter(fieldName string, fn ConverterFunc) {
	e.update(func(r *registry) { r.global[fieldName] = fn })
}

// RegisterConverterForPair scope: (srcType,dstType)+fieldName, takes precedence over global converters.
func (e *Engine) RegisterConverterForPair(srcType, dstType any, fieldName string, fn ConverterFunc) {
	key := [2]reflect.Type{baseType(srcType), baseType(dstType)}
	e.update(func(r *registry) {
		m := r.byPair[key]
		if m == nil {
			m = make(map[string]ConverterFunc)
			r.byPair[key] = m
		}
		m[fieldName] = fn
	})
}

// RegisterConstructor sets the constructor used when the engine needs a fresh
// instance of example's type (T or *T).
func (e *Engine) RegisterConstructor(example any, fn ConstructorFunc) {
	t := baseType(example)
	e.update(func(r *registry) { r.constructors[t] = fn })
}

// Copy transfers every readable field of src into the same-named writable field of dst.
// dst must be a pointer to struct; src may be a struct or a pointer to one. When copyNulls
// is false, fields that are null on src leave dst untouched. An absent src or dst is a no-op.
// Per-field failures are collected in the Report; structural failures are returned as errors.
func (e *Engine) Copy(dst, src any, copyNulls bool) (Report, error) {
	const op errors.Op = "beans.Engine.Copy"
	if isAbsent(src) || isAbsent(dst) {
		return Report{}, nil
	}
	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Ptr {
		return Report{}, &InvalidArgumentError{Arg: "dst", Err: errors.New(op).Errorf("must be a pointer, got %T", dst)}
	}
	dstVal = indirect(dstVal)
	srcVal := indirect(reflect.ValueOf(src))
	if !dstVal.IsValid() || !srcVal.IsValid() {
		return Report{}, nil
	}
	return e.copyStruct(dstVal, srcVal, copyNulls)
}

// CopyAll is Copy with copyNulls set.
func (e *Engine) CopyAll(dst, src any) (Report, error) { return e.Copy(dst, src, true) }

// CopyNonNull is Copy that keeps dst values wherever src is null.
func (e *Engine) CopyNonNull(dst, src any) (Report, error) { return e.Copy(dst, src, false) }

// Clone builds a fresh instance of src's type and copies src into it. The result is a
// pointer to the new instance, or nil when src is absent.
func (e *Engine) Clone(src any, copyNulls bool) (any, Report, error) {
	if isAbsent(src) {
		return nil, Report{}, nil
	}
	srcVal := indirect(reflect.ValueOf(src))
	if !srcVal.IsValid() {
		return nil, Report{}, nil
	}
	ptr, err := e.construct(srcVal.Type())
	if err != nil {
		return nil, Report{}, err
	}
	rep, err := e.copyStruct(ptr.Elem(), srcVal, copyNulls)
	if err != nil {
		return nil, rep, err
	}
	return ptr.Interface(), rep, nil
}

// --- core copy ---
func (e *Engine) copyStruct(dstVal, srcVal reflect.Value, copyNulls bool) (Report, error) {
	var rep Report
	st := srcVal.Type()
	dt := dstVal.Type()
	srcIx, err := e.cache.Index(st)
	if err != nil {
		return rep, err
	}
	dstIx, err := e.cache.Index(dt)
	if err != nil {
		return rep, err
	}
	var skip map[string]struct{}
	if !copyNulls {
		names := e.nullFieldNames(srcVal, srcIx)
		skip = make(map[string]struct{}, len(names))
		for _, n := range names {
			skip[n] = struct{}{}
		}
	}
	reg := e.loadRegistry()
	for i := range srcIx.accessors {
		sa := &srcIx.accessors[i]
		if !sa.Readable() {
			continue
		}
		if _, null := skip[sa.Name]; null {
			continue
		}
		da, ok := e.match(dstIx, sa)
		if !ok || !da.Writable() {
			continue
		}
		v, err := sa.Getter(srcVal)
		if err != nil {
			e.issue(&rep, dt, sa.Name, -1, OpRead, err)
			continue
		}
		if fn := reg.converter(st, dt, da.Name); fn != nil {
			if v, err = e.applyConverter(fn, v, da); err != nil {
				e.issue(&rep, dt, da.Name, -1, OpConvert, err)
				continue
			}
		} else if v.IsValid() && !transferable(v.Type(), da.Type) {
			continue
		}
		if err := da.Setter(dstVal, v); err != nil {
			e.issue(&rep, dt, da.Name, -1, OpWrite, err)
		}
	}
	return rep, nil
}

func (e *Engine) match(dstIx *Index, sa *Accessor) (Accessor, bool) {
	if da, ok := dstIx.Lookup(sa.Name); ok {
		return da, true
	}
	if e.options.MatchJSONNames && sa.JSONName != "" {
		if da, ok := dstIx.LookupJSON(sa.JSONName); ok {
			return da, true
		}
	}
	if e.options.CaseInsensitiveNames {
		return dstIx.lookupFold(sa.Name)
	}
	return Accessor{}, false
}

func (e *Engine) applyConverter(fn ConverterFunc, v reflect.Value, da Accessor) (out reflect.Value, err error) {
	const op errors.Op = "beans.Engine.applyConverter"
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(op).Errorf("converter panicked: %v", r)
		}
	}()
	converted, err := fn(valueInterface(v))
	if err != nil {
		return reflect.Value{}, err
	}
	cv := reflect.ValueOf(converted)
	if cv.IsValid() && !cv.Type().AssignableTo(da.Type) {
		return reflect.Value{}, errors.New(op).Errorf("converter returned type %s, expected %s", cv.Type(), da.Type)
	}
	return cv, nil
}

// construct returns a pointer to a fresh instance of typ.
func (e *Engine) construct(typ reflect.Type) (ptr reflect.Value, err error) {
	const op errors.Op = "beans.Engine.construct"
	if typ == nil {
		return reflect.Value{}, &ConstructionError{Err: errors.New(op).Msg("type is nil")}
	}
	fn := e.loadRegistry().constructors[typ]
	if fn == nil {
		if typ.Kind() != reflect.Struct {
			return reflect.Value{}, &ConstructionError{Type: typ, Err: errors.New(op).Errorf("kind %s is not a struct", typ.Kind())}
		}
		return reflect.New(typ), nil
	}
	defer func() {
		if r := recover(); r != nil {
			ptr = reflect.Value{}
			err = &ConstructionError{Type: typ, Err: errors.New(op).Errorf("constructor panicked: %v", r)}
		}
	}()
	out, err := fn()
	if err != nil {
		return reflect.Value{}, &ConstructionError{Type: typ, Err: errors.New(op).Err(err)}
	}
	v := reflect.ValueOf(out)
	switch {
	case v.IsValid() && v.Type() == reflect.PointerTo(typ) && !v.IsNil():
		return v, nil
	case v.IsValid() && v.Type() == typ:
		p := reflect.New(typ)
		p.Elem().Set(v)
		return p, nil
	}
	return reflect.Value{}, &ConstructionError{Type: typ, Err: errors.New(op).Errorf("constructor returned %T", out)}
}

func (e *Engine) issue(rep *Report, typ reflect.Type, field string, index int, op FieldOp, err error) {
	rep.Issues = append(rep.Issues, FieldIssue{Field: field, Index: index, Op: op, Err: err})
	name := "<nil>"
	if typ != nil {
		name = typ.String()
	}
	e.logger.Warn("beans: field skipped",
		zap.String("type", name),
		zap.String("field", field),
		zap.Int("index", index),
		zap.String("op", string(op)),
		zap.Error(err),
	)
}

// transferable reports whether a value of type src can be stored in a field of type dst.
// Integer to string conversions are excluded: they produce runes, not digits.
func transferable(src, dst reflect.Type) bool {
	if src.AssignableTo(dst) {
		return true
	}
	if !src.ConvertibleTo(dst) {
		return false
	}
	return !(isInteger(src.Kind()) && dst.Kind() == reflect.String)
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// isAbsent reports whether v is nil or a nil pointer, interface, map or slice.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func baseType(example any) reflect.Type {
	t := reflect.TypeOf(example)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
