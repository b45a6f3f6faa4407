package converters

import (
	"strings"
	"time"

	"github.com/Station-Manager/errors"
)

// StringToDate parses YYYYMMDD or YYYY-MM-DD into a time.Time at midnight UTC.
func StringToDate(src any) (any, error) {
	const op errors.Op = "converters.StringToDate"
	srcVal, err := CheckString(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	layout := "20060102"
	if strings.Contains(srcVal, "-") {
		layout = "2006-01-02"
	}
	retVal, err := time.Parse(layout, srcVal)
	if err != nil {
		return nil, errors.New(op).Msg(ErrMsgBadDateFormat)
	}
	return retVal, nil
}

// StringToTime parses HHMM or HH:MM into a time-of-day on the zero date, UTC.
func StringToTime(src any) (any, error) {
	const op errors.Op = "converters.StringToTime"
	srcVal, err := CheckString(op, src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	layout := "1504"
	if strings.Contains(srcVal, ":") {
		layout = "15:04"
	}
	retVal, err := time.Parse(layout, srcVal)
	if err != nil {
		return nil, errors.New(op).Msg(ErrMsgBadTimeFormat)
	}
	return time.Date(0, 1, 1, retVal.Hour(), retVal.Minute(), 0, 0, time.UTC), nil
}

// TimeToDate formats a time.Time as YYYYMMDD.
func TimeToDate(src any) (any, error) {
	const op errors.Op = "converters.TimeToDate"
	t, err := CheckTime(op, src)
	if err != nil {
		return nil, err
	}
	return t.Format("20060102"), nil
}
