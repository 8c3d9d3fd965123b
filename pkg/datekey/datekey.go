// Package datekey converts moments to canonical YYYY-MM-DD day keys built from
// local calendar fields, and does calendar arithmetic on those keys.
//
// Arithmetic is done on civil dates pinned to UTC midnight, so stepping a day
// never lands on a DST seam of the caller's location.
package datekey

import (
	"fmt"
	"time"

	errorvalues "github.com/limbo/readtogether/internal/error_values"
)

const (
	Layout      = "2006-01-02"
	MonthLayout = "2006-01"
)

// FromTime returns the day key of t using t's own location fields.
func FromTime(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Today returns the day key of now as seen in loc. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

// Parse validates key and returns it as a civil date at UTC midnight.
func Parse(key string) (time.Time, error) {
	if !wellFormed(key) {
		return time.Time{}, &errorvalues.ValidationError{Field: "date", Value: key, Reason: "expected YYYY-MM-DD"}
	}
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, &errorvalues.ValidationError{Field: "date", Value: key, Reason: "not a calendar day"}
	}
	return t, nil
}

func Validate(key string) error {
	_, err := Parse(key)
	return err
}

func wellFormed(key string) bool {
	if len(key) != len(Layout) {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func AddDays(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// DaysBefore returns the key n calendar days earlier than key.
func DaysBefore(key string, n int) (string, error) {
	return AddDays(key, -n)
}

// DaysBetween returns to minus from in whole calendar days.
func DaysBetween(from, to string) (int, error) {
	a, err := Parse(from)
	if err != nil {
		return 0, err
	}
	b, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// Range lists every key from..to inclusive. An inverted range is empty.
func Range(from, to string) ([]string, error) {
	start, err := Parse(from)
	if err != nil {
		return nil, err
	}
	end, err := Parse(to)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(Layout))
	}
	return days, nil
}

// WeekDays returns the seven keys starting at start.
func WeekDays(start string) ([]string, error) {
	end, err := AddDays(start, 6)
	if err != nil {
		return nil, err
	}
	return Range(start, end)
}

func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func ParseMonth(key string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, key)
	if err != nil || len(key) != len(MonthLayout) {
		return 0, 0, &errorvalues.ValidationError{Field: "month", Value: key, Reason: "expected YYYY-MM"}
	}
	return t.Year(), t.Month(), nil
}

// MonthBounds returns the first and last day keys of the month.
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(Layout), last.Format(Layout)
}

// InMonth reports whether a canonical key falls in the given month.
func InMonth(key string, year int, month time.Month) bool {
	return len(key) == len(Layout) && key[:len(MonthLayout)] == MonthKey(year, month)
}
