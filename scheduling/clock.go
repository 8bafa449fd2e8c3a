package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const clockLayout = "3:04 PM"

var (
	ErrInvalidClock    = errors.New("invalid clock time, expected H:MM AM|PM")
	ErrInvalidDutyTime = errors.New("invalid duty time, expected H:MM AM - H:MM PM with start before end")
)

// Clock is a time of day on a 24-hour clock.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 12-hour clock point such as "10:30 AM" or "2:00pm".
// 12 AM is midnight (hour 0) and 12 PM stays noon.
func ParseClock(value string) (Clock, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if len(s) > 2 && !strings.Contains(s, " ") && (strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM")) {
		s = s[:len(s)-2] + " " + s[len(s)-2:]
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ClockOf returns the wall-clock time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// AddMinutes moves the clock forward, carrying minutes into hours.
// Times past midnight wrap around to the next morning.
func (c Clock) AddMinutes(minutes int) Clock {
	total := c.Minute + minutes
	hour := (c.Hour + total/60) % 24
	return Clock{Hour: hour, Minute: total % 60}
}

// Before reports whether c is strictly earlier in the day than other.
func (c Clock) Before(other Clock) bool {
	return c.Minutes() < other.Minutes()
}

func (c Clock) IsZero() bool {
	return c.Hour == 0 && c.Minute == 0
}

// String renders the clock as "H:MM AM|PM".
func (c Clock) String() string {
	period := "AM"
	if c.Hour >= 12 {
		period = "PM"
	}
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, period)
}

// DutyWindow is the part of the day a doctor sees patients.
type DutyWindow struct {
	Start Clock
	End   Clock
}

// ParseDutyWindow parses the combined form "10:00 AM - 2:00 PM".
func ParseDutyWindow(value string) (DutyWindow, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return DutyWindow{}, fmt.Errorf("%w: %q", ErrInvalidDutyTime, value)
	}
	return NewDutyWindow(parts[0], parts[1])
}

// NewDutyWindow builds a window from separate start and end clock points.
func NewDutyWindow(start, end string) (DutyWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return DutyWindow{}, fmt.Errorf("%w: start: %v", ErrInvalidDutyTime, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return DutyWindow{}, fmt.Errorf("%w: end: %v", ErrInvalidDutyTime, err)
	}
	if !s.Before(e) {
		return DutyWindow{}, fmt.Errorf("%w: %s is not before %s", ErrInvalidDutyTime, s, e)
	}
	return DutyWindow{Start: s, End: e}, nil
}

func (w DutyWindow) String() string {
	return w.Start.String() + " - " + w.End.String()
}
