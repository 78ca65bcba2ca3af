package domain

import (
	"errors"
	"time"
)

// TimestampLayout is the canonical display form of NewsRecord.Timestamp, e.g. "27 Jan 2026, 01:06 PM"
const TimestampLayout = "02 Jan 2006, 03:04 PM"

// ErrNoTimestamp returned for records without a timestamp
var ErrNoTimestamp = errors.New("empty timestamp")

// FormatTimestamp renders t in the canonical display form in loc (local time if nil)
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

// ParseTimestamp parses the canonical display form, interpreting it in loc (local time if nil)
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrNoTimestamp
	}
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(TimestampLayout, s, loc)
}

// IsUnparseable reports records kept by retention only because their timestamp can't be parsed
func IsUnparseable(r NewsRecord, loc *time.Location) bool {
	_, err := ParseTimestamp(r.Timestamp, loc)
	return err != nil
}
