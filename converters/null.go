package converters

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
)

// StringToNullString wraps a string into a valid null.String; the empty string
// becomes an invalid one. nil stays nil.
func StringToNullString(src any) (any, error) {
	const op errors.Op = "converters.StringToNullString"
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return null.String{}, nil
		}
		return null.StringFrom(v), nil
	case *string:
		return null.StringFromPtr(v), nil
	}
	return nil, errors.New(op).Errorf("Given parameter not a string, got %T", src)
}

// NullStringToString unwraps a null.String; an invalid one becomes "".
func NullStringToString(src any) (any, error) {
	const op errors.Op = "converters.NullStringToString"
	v, ok := src.(null.String)
	if !ok {
		return nil, errors.New(op).Errorf("Given parameter not a null.String, got %T", src)
	}
	if !v.Valid {
		return "", nil
	}
	return v.String, nil
}

// TimeToNullTime wraps a time.Time into a null.Time; the zero time becomes an invalid one.
func TimeToNullTime(src any) (any, error) {
	const op errors.Op = "converters.TimeToNullTime"
	t, err := CheckTime(op, src)
	if err != nil {
		return null.Time{}, err
	}
	if t.IsZero() {
		return null.Time{}, nil
	}
	return null.TimeFrom(t), nil
}

// NullTimeToTime unwraps a null.Time; an invalid one becomes the zero time.
func NullTimeToTime(src any) (any, error) {
	const op errors.Op = "converters.NullTimeToTime"
	if nt, ok := src.(null.Time); ok {
		if !nt.Valid {
			return time.Time{}, nil
		}
		return nt.Time, nil
	}
	return CheckTime(op, src)
}
