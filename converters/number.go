package converters

import (
	"strconv"

	"github.com/Station-Manager/errors"
)

// StringToFloat parses a decimal string into a float64.
func StringToFloat(src any) (any, error) {
	const op errors.Op = "converters.StringToFloat"
	srcVal, err := CheckString(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	retVal, err := strconv.ParseFloat(srcVal, 64)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	return retVal, nil
}

// IntToInt64 widens any integer value, or an integral float64, to int64.
func IntToInt64(src any) (any, error) {
	const op errors.Op = "converters.IntToInt64"
	return CheckInt64(op, src)
}
