package converters

import (
	"math"
	"testing"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInt64_IntegerKinds(t *testing.T) {
	op := errors.Op("converters.TestCheckInt64")

	tests := []struct {
		name  string
		input any
		want  int64
	}{
		{"int8 min", int8(math.MinInt8), math.MinInt8},
		{"int16", int16(-1200), -1200},
		{"int32 max", int32(math.MaxInt32), math.MaxInt32},
		{"int", 42, 42},
		{"int64 min", int64(math.MinInt64), math.MinInt64},
		{"uint8 max", uint8(math.MaxUint8), math.MaxUint8},
		{"uint16", uint16(14320), 14320},
		{"uint32 max", uint32(math.MaxUint32), math.MaxUint32},
		{"uint at int64 max", uint(math.MaxInt64), math.MaxInt64},
		{"uint64 at int64 max", uint64(math.MaxInt64), math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckInt64(op, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckInt64_Overflow(t *testing.T) {
	op := errors.Op("converters.TestCheckInt64")

	tests := []struct {
		name  string
		input any
	}{
		{"uint max", uint(math.MaxUint64)},
		{"uint just above int64", uint(math.MaxInt64) + 1},
		{"uint64 max", uint64(math.MaxUint64)},
		{"float64 two to the 63", float64(1 << 63)},
		{"float64 max int64 rounds up", float64(math.MaxInt64)},
		{"float64 below min int64", -float64(1<<63) * 2},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckInt64(op, tt.input)
			assert.Error(t, err)
			assert.Equal(t, int64(-1), got)
		})
	}
}

// Numbers decoded from JSON into an any arrive as float64.
func TestCheckInt64_DecodedFloats(t *testing.T) {
	op := errors.Op("converters.TestCheckInt64")

	tests := []struct {
		name    string
		input   float64
		want    int64
		wantErr bool
	}{
		{name: "whole", input: 14320, want: 14320},
		{name: "negative whole", input: -7, want: -7},
		{name: "zero", input: 0, want: 0},
		{name: "min int64", input: math.MinInt64, want: math.MinInt64},
		{name: "largest exact below 2^63", input: float64(1<<63 - 1024), want: 1<<63 - 1024},
		{name: "fraction", input: 14.32, wantErr: true},
		{name: "nan", input: math.NaN(), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckInt64(op, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckInt64_NotANumber(t *testing.T) {
	op := errors.Op("converters.TestCheckInt64")
	for _, in := range []any{nil, "42", float32(1), true, null.Int64From(1)} {
		_, err := CheckInt64(op, in)
		assert.Error(t, err, "%T", in)
	}
}

func TestCheckFloat64(t *testing.T) {
	op := errors.Op("converters.TestCheckFloat64")

	got, err := CheckFloat64(op, 14.074)
	require.NoError(t, err)
	assert.Equal(t, 14.074, got)

	_, err = CheckFloat64(op, 0.0)
	assert.Error(t, err)
	_, err = CheckFloat64(op, 14)
	assert.Error(t, err)
	_, err = CheckFloat64(op, "14.074")
	assert.Error(t, err)
}

// CheckString and CheckTime guard the inputs of the date and null converters.
func TestInputChecks_ThroughConverters(t *testing.T) {
	tests := []struct {
		name string
		conv func(any) (any, error)
		in   any
	}{
		{"date from empty string", StringToDate, ""},
		{"date from nil", StringToDate, nil},
		{"date from string pointer", StringToDate, new(string)},
		{"date from time", StringToDate, time.Now()},
		{"time from empty string", StringToTime, ""},
		{"time from int", StringToTime, 1205},
		{"null time from string", TimeToNullTime, "2025-01-02"},
		{"null time from time pointer", TimeToNullTime, &time.Time{}},
		{"null time from nil", TimeToNullTime, nil},
		{"date from string", TimeToDate, "20250102"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.conv(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestCheckString(t *testing.T) {
	op := errors.Op("converters.TestCheckString")

	got, err := CheckString(op, "M0CMC")
	require.NoError(t, err)
	assert.Equal(t, "M0CMC", got)

	// Blank but non-empty text is accepted; trimming is the caller's concern.
	got, err = CheckString(op, "  ")
	require.NoError(t, err)
	assert.Equal(t, "  ", got)

	_, err = CheckString(op, null.StringFrom("M0CMC"))
	assert.Error(t, err)
}

func TestCheckTime(t *testing.T) {
	op := errors.Op("converters.TestCheckTime")
	now := time.Date(2025, 11, 7, 12, 5, 0, 0, time.UTC)

	got, err := CheckTime(op, now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = CheckTime(op, time.Time{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = CheckTime(op, null.TimeFrom(now))
	assert.Error(t, err)
	assert.True(t, got.IsZero())
}
