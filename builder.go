package beans

import "reflect"

// Builder provides a fluent API to construct an Engine with options, converters and constructors pre-registered.
type Builder struct {
	opts   []Option
	convsG map[string]ConverterFunc
	convsP map[[2]reflect.Type]map[string]ConverterFunc
	ctors  map[reflect.Type]ConstructorFunc
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{
		convsG: make(map[string]ConverterFunc),
		convsP: make(map[[2]reflect.Type]map[string]ConverterFunc),
		ctors:  make(map[reflect.Type]ConstructorFunc),
	}
}

// WithOptions appends engine options to the builder.
func (b *Builder) WithOptions(opts ...Option) *Builder { b.opts = append(b.opts, opts...); return b }

// AddConverter registers a global converter by field name.
func (b *Builder) AddConverter(field string, fn ConverterFunc) *Builder {
	b.convsG[field] = fn
	return b
}

// AddConverterForPair registers a converter for a (src,dst) pair and field name.
func (b *Builder) AddConverterForPair(src, dst any, field string, fn ConverterFunc) *Builder {
	key := [2]reflect.Type{baseType(src), baseType(dst)}
	m := b.convsP[key]
	if m == nil {
		m = make(map[string]ConverterFunc)
		b.convsP[key] = m
	}
	m[field] = fn
	return b
}

// AddConstructor registers the constructor for example's type.
func (b *Builder) AddConstructor(example any, fn ConstructorFunc) *Builder {
	b.ctors[baseType(example)] = fn
	return b
}

// Build constructs an Engine using a single registry swap.
func (b *Builder) Build() *Engine {
	e := NewWithOptions(b.opts...)
	reg := newRegistry()
	for k, v := range b.convsG {
		reg.global[k] = v
	}
	for k, m := range b.convsP {
		sub := make(map[string]ConverterFunc, len(m))
		for fk, fv := range m {
			sub[fk] = fv
		}
		reg.byPair[k] = sub
	}
	for k, v := range b.ctors {
		reg.constructors[k] = v
	}
	e.registry.Store(reg)
	return e
}
