package utils

import (
	"math"
	"time"
)

// WorkRange is the canonical start/end pair after next-day rollover,
// with the derived duration in hours (one decimal place).
type WorkRange struct {
	Start       time.Time
	End         time.Time
	EndsNextDay bool
	Hours       float64
}

type timeRangeError struct{}

func (timeRangeError) Error() string { return "end time must be after start time" }

// ErrEndNotAfterStart is returned when, after any rollover adjustment,
// the end instant is still not after the start instant. Callers wrap
// it into their own error taxonomy.
var ErrEndNotAfterStart error = timeRangeError{}

// ComputeWorkRange derives the canonical work range for a shift.
//
// When endsNextDay is nil the flag is inferred: an end that is not
// after the start means the shift ran past midnight. When the caller
// pins the flag it is honored as given; a pinned false with
// end <= start is an error rather than a silent fix-up. The rollover
// only ever advances an end that still sits on (or before) the start's
// calendar day, so an end already expressed on the following day is
// never pushed out twice. Hours are rounded to one decimal place.
func ComputeWorkRange(start, end time.Time, endsNextDay *bool) (WorkRange, error) {
	rollover := false
	if endsNextDay != nil {
		rollover = *endsNextDay
	} else {
		rollover = !end.After(start)
	}

	if rollover && !calendarDay(end).After(calendarDay(start)) {
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return WorkRange{}, ErrEndNotAfterStart
	}

	return WorkRange{
		Start:       start,
		End:         end,
		EndsNextDay: calendarDay(end).After(calendarDay(start)),
		Hours:       math.Round(end.Sub(start).Hours()*10) / 10,
	}, nil
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
