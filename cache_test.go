package beans

import (
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedRow struct {
	ID    int
	Label string
}

func TestCache_ConcurrentFirstAccessBuildsOnce(t *testing.T) {
	t.Parallel()
	var builds atomic.Int32
	c := NewCache(WithBuildHook(func(reflect.Type) { builds.Add(1) }))

	n := runtime.GOMAXPROCS(0) * 8
	results := make([]*Index, n)
	var start sync.WaitGroup
	start.Add(1)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			start.Wait()
			ix, err := c.Index(reflect.TypeFor[cachedRow]())
			if assert.NoError(t, err) {
				results[i] = ix
			}
		}()
	}
	start.Done()
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	for _, ix := range results {
		assert.Same(t, results[0], ix)
	}
	assert.Equal(t, []string{"ID", "Label"}, results[0].Names())
}

func TestCache_PointerTypesShareEntry(t *testing.T) {
	var builds atomic.Int32
	c := NewCache(WithBuildHook(func(reflect.Type) { builds.Add(1) }))

	a, err := c.IndexOf(cachedRow{})
	require.NoError(t, err)
	b, err := c.IndexOf(&cachedRow{})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, int32(1), builds.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_FailureIsNotCached(t *testing.T) {
	type Broken struct {
		Name string `bean:"maybe"`
	}
	var builds atomic.Int32
	c := NewCache(WithBuildHook(func(reflect.Type) { builds.Add(1) }))

	for i := 0; i < 3; i++ {
		_, err := c.Index(reflect.TypeFor[Broken]())
		var ie *IntrospectionError
		require.ErrorAs(t, err, &ie)
	}
	assert.Equal(t, int32(3), builds.Load(), "every call retries introspection")
	assert.Equal(t, 0, c.Len())
}

func TestCache_NilAndNonStruct(t *testing.T) {
	c := NewCache()
	var ie *IntrospectionError

	_, err := c.Index(nil)
	require.ErrorAs(t, err, &ie)

	_, err = c.IndexOf(42)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, reflect.TypeFor[int](), ie.Type)
}

func TestCache_Warm(t *testing.T) {
	type Other struct{ X int }
	var builds atomic.Int32
	c := NewCache(WithBuildHook(func(reflect.Type) { builds.Add(1) }))

	require.NoError(t, c.Warm(cachedRow{}, nil, &Other{}))
	assert.Equal(t, int32(2), builds.Load())

	_, err := c.IndexOf(&Other{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), builds.Load(), "warm entries are reused")

	assert.Error(t, c.Warm("not a struct"))
}

func TestCache_SharedBetweenEngines(t *testing.T) {
	var builds atomic.Int32
	shared := NewCache(WithBuildHook(func(reflect.Type) { builds.Add(1) }))
	e1 := NewWithOptions(WithCache(shared))
	e2 := NewWithOptions(WithCache(shared))

	src := &cachedRow{ID: 1, Label: "a"}
	var d1, d2 cachedRow
	_, err := e1.CopyAll(&d1, src)
	require.NoError(t, err)
	_, err = e2.CopyAll(&d2, src)
	require.NoError(t, err)

	assert.Same(t, shared, e1.Cache())
	assert.Equal(t, int32(1), builds.Load())
	assert.Equal(t, *src, d2)
}
