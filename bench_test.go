package beans

import (
	"fmt"
	"testing"

	"github.com/aarondl/null/v8"
)

// Benchmark structs
type BenchSource struct {
	ID          int
	Name        string
	Email       *string
	Age         int
	City        null.String
	Zip         string
	Active      bool
	Score       float64
	Rating      float32
	Description *string
}

type BenchDest struct {
	ID          int
	Name        string
	Email       *string
	Age         int
	City        null.String
	Zip         string
	Active      bool
	Score       float64
	Rating      float32
	Description *string
}

func benchSource() *BenchSource {
	return &BenchSource{
		ID:     1,
		Name:   "John Doe",
		Email:  strp("john@example.com"),
		Age:    30,
		City:   null.StringFrom("Boston"),
		Zip:    "02101",
		Active: true,
		Score:  95.5,
		Rating: 4.8,
	}
}

func BenchmarkEngine_CopyAll(b *testing.B) {
	engine := New()
	src := benchSource()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dst := &BenchDest{}
		_, _ = engine.CopyAll(dst, src)
	}
}

func BenchmarkEngine_CopyNonNull(b *testing.B) {
	engine := New()
	src := benchSource()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dst := &BenchDest{Description: strp("kept")}
		_, _ = engine.CopyNonNull(dst, src)
	}
}

func BenchmarkEngine_WithConverter(b *testing.B) {
	engine := New()
	engine.RegisterConverter("Score", func(src any) (any, error) {
		score, ok := src.(float64)
		if !ok {
			return nil, fmt.Errorf("expected float64")
		}
		return score * 1.1, nil
	})
	src := benchSource()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dst := &BenchDest{}
		_, _ = engine.CopyAll(dst, src)
	}
}

func BenchmarkEngine_FindNullFieldNames(b *testing.B) {
	engine := New()
	src := benchSource()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = engine.FindNullFieldNames(src)
	}
}

func BenchmarkCopySlice(b *testing.B) {
	engine := New()
	src := make([]*BenchSource, 100)
	for i := range src {
		src[i] = benchSource()
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = CopySlice(engine, src)
	}
}
