// Package lazy provides a concurrent compute-if-absent map used by the
// metadata caches.
package lazy

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type entry[V any] struct {
	once  sync.Once
	ready atomic.Bool // set after val is published
	val   V
	err   error
}

// Map publishes one value per key. The first caller for a key runs the build
// function; concurrent callers for the same key wait for that build and observe
// its result. Callers for other keys are never blocked.
//
// Successful values are kept for the lifetime of the Map. A failed build is
// discarded so the next caller retries it.
type Map[K comparable, V any] struct {
	m sync.Map // map[K]*entry[V]
}

// Load returns the published value for key, if any.
func (m *Map[K, V]) Load(key K) (V, bool) {
	var zero V
	raw, ok := m.m.Load(key)
	if !ok {
		return zero, false
	}
	e := raw.(*entry[V])
	// In-flight and failed entries are reported as absent.
	if !e.ready.Load() {
		return zero, false
	}
	return e.val, true
}

// LoadOrBuild returns the value for key, running build at most once per
// successful publication.
func (m *Map[K, V]) LoadOrBuild(key K, build func(K) (V, error)) (V, error) {
	raw, ok := m.m.Load(key)
	if !ok {
		raw, _ = m.m.LoadOrStore(key, &entry[V]{})
	}
	e := raw.(*entry[V])
	if e.ready.Load() {
		return e.val, nil
	}
	e.once.Do(func() {
		e.val, e.err = safeBuild(key, build)
		if e.err == nil {
			e.ready.Store(true)
		}
	})
	if e.err != nil {
		m.m.CompareAndDelete(key, e)
		var zero V
		return zero, e.err
	}
	return e.val, nil
}

// Len counts published entries. In-flight and failed builds are not included.
func (m *Map[K, V]) Len() int {
	n := 0
	m.m.Range(func(_, raw any) bool {
		if raw.(*entry[V]).ready.Load() {
			n++
		}
		return true
	})
	return n
}

func safeBuild[K comparable, V any](key K, build func(K) (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lazy: build for %v panicked: %v", key, r)
		}
	}()
	return build(key)
}
