package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for appointment dates.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// weekdayNames is indexed by time.Weekday (Sunday=0..Saturday=6). The same
// table names the stored appointment day, so lookups by day stay consistent.
var weekdayNames = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

// WeekdayName returns the English weekday name of d.
func WeekdayName(d time.Time) string {
	return weekdayNames[d.Weekday()]
}

// CanonicalWeekday normalises a weekday name ("monday", " MONDAY ") to its
// canonical form. The second result is false for anything that is not a weekday.
func CanonicalWeekday(name string) (string, bool) {
	n := strings.TrimSpace(name)
	for _, w := range weekdayNames {
		if strings.EqualFold(w, n) {
			return w, true
		}
	}
	return "", false
}

// SameDate reports whether a and b fall on the same calendar date, comparing
// them in b's location.
func SameDate(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
