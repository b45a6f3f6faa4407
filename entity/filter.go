package entity

import (
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/Station-Manager/beans"
	"github.com/Station-Manager/beans/internal/lazy"
	"github.com/Station-Manager/errors"
	"go.uber.org/zap"
)

var baseType = reflect.TypeFor[Base]()

// Filter computes and caches the business Fields of entity types.
// It is safe for concurrent use; each entity type is introspected once.
type Filter struct {
	baseOnce  sync.Once
	baseNames []string
	baseSet   map[string]struct{}

	cache   lazy.Map[reflect.Type, *Fields]
	onBuild func(reflect.Type)
	logger  *zap.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithBuildHook registers fn to be called each time an entity type is introspected.
func WithBuildHook(fn func(reflect.Type)) Option { return func(f *Filter) { f.onBuild = fn } }

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFilter creates a Filter with empty caches.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{logger: zap.NewNop()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// BaseFields returns the names declared directly on Base. They are computed once
// per Filter.
func (f *Filter) BaseFields() []string {
	f.loadBase()
	out := make([]string, len(f.baseNames))
	copy(out, f.baseNames)
	return out
}

func (f *Filter) loadBase() {
	f.baseOnce.Do(func() {
		f.baseNames = make([]string, 0, baseType.NumField())
		f.baseSet = make(map[string]struct{}, baseType.NumField())
		for i := 0; i < baseType.NumField(); i++ {
			name := baseType.Field(i).Name
			f.baseNames = append(f.baseNames, name)
			f.baseSet[name] = struct{}{}
		}
	})
}

// BusinessAccessors returns the business fields of typ (an entity struct or a
// pointer to one). typ must embed Base directly or transitively.
func (f *Filter) BusinessAccessors(typ reflect.Type) (*Fields, error) {
	const op errors.Op = "entity.Filter.BusinessAccessors"
	if typ == nil {
		return nil, &beans.InvalidArgumentError{Arg: "entityType", Err: errors.New(op).Msg("entity type can not be nil")}
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if fs, ok := f.cache.Load(typ); ok {
		return fs, nil
	}
	return f.cache.LoadOrBuild(typ, f.build)
}

// BusinessAccessorsOf is BusinessAccessors for the type parameter.
func BusinessAccessorsOf[T any](f *Filter) (*Fields, error) {
	return f.BusinessAccessors(reflect.TypeFor[T]())
}

func (f *Filter) build(typ reflect.Type) (*Fields, error) {
	const op errors.Op = "entity.Filter.build"
	if f.onBuild != nil {
		f.onBuild(typ)
	}
	parent, ok := parentOf(typ)
	if !ok {
		return nil, &beans.InvalidArgumentError{Arg: "entityType", Err: errors.New(op).Errorf("%s does not embed %s", typ, baseType)}
	}
	f.loadBase()

	// Fields of the immediate parent, then of the entity itself. Deeper ancestors are not visited.
	var declared []reflect.StructField
	for _, t := range []reflect.Type{parent, typ} {
		for i := 0; i < t.NumField(); i++ {
			if sf := t.Field(i); !sf.Anonymous {
				declared = append(declared, sf)
			}
		}
	}

	methods := reflect.PointerTo(typ)
	fs := &Fields{typ: typ, byName: make(map[string]beans.Accessor, len(declared))}
	for _, sf := range declared {
		if _, isBase := f.baseSet[sf.Name]; isBase {
			continue
		}
		m, ok := methods.MethodByName(getterName(sf.Name))
		if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}
		if _, dup := fs.byName[sf.Name]; !dup {
			fs.names = append(fs.names, sf.Name)
		}
		fs.byName[sf.Name] = beans.MethodAccessor(sf.Name, sf.Type, m)
	}
	f.logger.Debug("entity: business fields built", zap.String("type", typ.String()), zap.Strings("fields", fs.names))
	return fs, nil
}

// parentOf returns the struct type of the anonymous field of typ through which
// Base is reached. When typ embeds Base directly the parent is Base itself.
func parentOf(typ reflect.Type) (reflect.Type, bool) {
	if typ.Kind() != reflect.Struct || typ == baseType {
		return nil, false
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.Anonymous {
			continue
		}
		ft := sf.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft == baseType || embedsBase(ft, map[reflect.Type]bool{typ: true}) {
			return ft, true
		}
	}
	return nil, false
}

func embedsBase(typ reflect.Type, seen map[reflect.Type]bool) bool {
	if typ.Kind() != reflect.Struct || seen[typ] {
		return false
	}
	if typ == baseType {
		return true
	}
	seen[typ] = true
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.Anonymous {
			continue
		}
		ft := sf.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if embedsBase(ft, seen) {
			return true
		}
	}
	return false
}

// getterName maps field x to "Get" followed by x with its first rune upper-cased.
func getterName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return "Get" + field
	}
	return "Get" + string(unicode.ToUpper(r)) + field[size:]
}
