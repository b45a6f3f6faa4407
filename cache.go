package beans

import (
	stderrors "errors"
	"reflect"

	"github.com/Station-Manager/beans/internal/lazy"
	"github.com/Station-Manager/errors"
	"go.uber.org/zap"
)

// Cache is the process-wide store of accessor indexes keyed by struct type.
// Each type is introspected at most once per successful build; entries are never
// evicted, so types are assumed to keep their shape for the life of the process.
// A Cache is safe for concurrent use and may be shared between engines.
type Cache struct {
	indexes lazy.Map[reflect.Type, *Index]
	onBuild func(reflect.Type)
	logger  *zap.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithBuildHook registers fn to be called each time a type is introspected.
func WithBuildHook(fn func(reflect.Type)) CacheOption { return func(c *Cache) { c.onBuild = fn } }

// WithCacheLogger sets the logger used for build diagnostics.
func WithCacheLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates an empty Cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Index returns the accessor index of typ, building it on first use.
// Pointer types are dereferenced.
func (c *Cache) Index(typ reflect.Type) (*Index, error) {
	const op errors.Op = "beans.Cache.Index"
	if typ == nil {
		return nil, &IntrospectionError{Err: errors.New(op).Msg("type is nil")}
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if ix, ok := c.indexes.Load(typ); ok {
		return ix, nil
	}
	ix, err := c.indexes.LoadOrBuild(typ, c.build)
	if err != nil {
		var ie *IntrospectionError
		if !stderrors.As(err, &ie) {
			err = &IntrospectionError{Type: typ, Err: errors.New(op).Err(err)}
		}
		return nil, err
	}
	return ix, nil
}

// IndexOf returns the accessor index of v's dynamic type.
func (c *Cache) IndexOf(v any) (*Index, error) {
	return c.Index(reflect.TypeOf(v))
}

// Warm pre-builds indexes for the provided example values (T or *T).
// Nil examples are skipped; the first failure is returned.
func (c *Cache) Warm(examples ...any) error {
	for _, e := range examples {
		if e == nil {
			continue
		}
		if _, err := c.IndexOf(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of published indexes.
func (c *Cache) Len() int { return c.indexes.Len() }

func (c *Cache) build(typ reflect.Type) (*Index, error) {
	if c.onBuild != nil {
		c.onBuild(typ)
	}
	ix, err := buildIndex(typ)
	if err != nil {
		c.logger.Debug("beans: introspection failed", zap.String("type", typ.String()), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("beans: index built", zap.String("type", typ.String()), zap.Int("fields", ix.Len()))
	return ix, nil
}
