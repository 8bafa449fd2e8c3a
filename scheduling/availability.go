package scheduling

import (
	"errors"
	"sort"
	"time"
)

// DefaultSlotLength is the time each token occupies in the doctor's queue.
const DefaultSlotLength = 10 * time.Minute

var (
	ErrNotAvailableThatDay = errors.New("doctor is not available on this day")
	ErrDutyOver            = errors.New("doctor's duty time is over for today")
	ErrFullyBooked         = errors.New("no more slots available for this doctor on the selected date")
)

// Schedule is the part of a doctor record the allocator works with.
type Schedule struct {
	AvailableDays []string
	Duty          DutyWindow
	MaxPerDay     int
}

// OpenOn reports whether the doctor works on the given weekday.
func (s Schedule) OpenOn(day string) bool {
	for _, d := range s.AvailableDays {
		if c, ok := CanonicalWeekday(d); ok && c == day {
			return true
		}
	}
	return false
}

// Availability is the preview of the next booking for a doctor on a date.
type Availability struct {
	Available      bool
	Day            string
	Existing       int
	MaxPerDay      int
	AvailableSlots int
	NextToken      int
	ReportingTime  Clock
}

// FullyBooked reports whether no further booking fits on the day.
func (a Availability) FullyBooked() bool {
	return a.Available && a.AvailableSlots == 0
}

// Allocator turns a schedule and the tokens already held on a date into a
// queue position and reporting time.
type Allocator struct {
	SlotLength time.Duration
}

// NewAllocator returns an allocator using slot as the per-token duration. A
// non-positive slot falls back to DefaultSlotLength.
func NewAllocator(slot time.Duration) Allocator {
	if slot <= 0 {
		slot = DefaultSlotLength
	}
	return Allocator{SlotLength: slot}
}

// ReportingTime is the arrival time for token: duty start plus (token-1) slots.
func (a Allocator) ReportingTime(start Clock, token int) Clock {
	if token < 1 {
		token = 1
	}
	offset := (token - 1) * int(a.SlotLength/time.Minute)
	return start.AddMinutes(offset)
}

// Preview computes availability for date given the tokens already held by
// bookings that count toward capacity. It has no side effects.
func (a Allocator) Preview(s Schedule, date time.Time, occupied []int) Availability {
	day := WeekdayName(date)
	if !s.OpenOn(day) {
		return Availability{Available: false, Day: day}
	}

	slots := s.MaxPerDay - len(occupied)
	if slots < 0 {
		slots = 0
	}
	next := NextToken(occupied)
	return Availability{
		Available:      true,
		Day:            day,
		Existing:       len(occupied),
		MaxPerDay:      s.MaxPerDay,
		AvailableSlots: slots,
		NextToken:      next,
		ReportingTime:  a.ReportingTime(s.Duty.Start, next),
	}
}

// Admission is the outcome of a successful admission check.
type Admission struct {
	Day           string
	Token         int
	ReportingTime Clock
}

// Admit decides whether a booking for date is admissible at instant now.
// Callers must hold the per-(doctor, date) serialization while the returned
// token is persisted.
func (a Allocator) Admit(s Schedule, date, now time.Time, occupied []int) (Admission, error) {
	day := WeekdayName(date)
	if !s.OpenOn(day) {
		return Admission{Day: day}, ErrNotAvailableThatDay
	}

	if SameDate(date, now) && !ClockOf(now).Before(s.Duty.End) {
		return Admission{Day: day}, ErrDutyOver
	}

	if len(occupied) >= s.MaxPerDay {
		return Admission{Day: day}, ErrFullyBooked
	}

	token := NextToken(occupied)
	return Admission{
		Day:           day,
		Token:         token,
		ReportingTime: a.ReportingTime(s.Duty.Start, token),
	}, nil
}

// NextToken returns the lowest positive token not present in occupied. With
// tokens 1..n held it is n+1.
func NextToken(occupied []int) int {
	held := make([]int, len(occupied))
	copy(held, occupied)
	sort.Ints(held)

	next := 1
	for _, t := range held {
		if t == next {
			next++
		} else if t > next {
			break
		}
	}
	return next
}
