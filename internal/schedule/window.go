// Package schedule implements the time-slot matcher: pure time-of-day
// window arithmetic for load-shedding schedules, including windows that
// wrap past midnight.
package schedule

import (
	"time"

	"github.com/kvanzyl/shedwatch/pkg/types"
)

// SAST is South Africa Standard Time, a fixed UTC+2 offset with no daylight
// saving. All time-of-day and day-of-month comparisons happen in SAST.
var SAST = time.FixedZone("SAST", 2*60*60)

// Bound selects which edge of a schedule window NextBoundary rolls forward.
type Bound int

const (
	BoundStart Bound = iota
	BoundStop
)

func startMinutes(s types.TimeSchedule) int { return s.StartHour*60 + s.StartMinute }
func stopMinutes(s types.TimeSchedule) int  { return s.StopHour*60 + s.StopMinute }

// DayOfMonth returns the instant's calendar day of month in SAST. The
// rotation arrays on stage blocks are indexed by this value minus one.
func DayOfMonth(at time.Time) int {
	return at.In(SAST).Day()
}

// Wraps reports whether the schedule's window crosses midnight.
func Wraps(s types.TimeSchedule) bool {
	return stopMinutes(s) < startMinutes(s)
}

// InWindow reports whether the instant's time-of-day (in SAST) falls inside
// the schedule's [start, stop) window. The start bound is inclusive and the
// stop bound exclusive, so a 20:00-22:30 window matches 20:00 and 22:29 but
// not 22:30. A wrapping window is the union of [start, 24:00) and
// [00:00, stop).
func InWindow(s types.TimeSchedule, at time.Time) bool {
	local := at.In(SAST)
	now := local.Hour()*60 + local.Minute()
	start, stop := startMinutes(s), stopMinutes(s)
	if Wraps(s) {
		return now >= start || now < stop
	}
	return now >= start && now < stop
}

// NextBoundary rolls the schedule's start or stop hour/minute onto the
// instant's SAST date, advancing one day when the rolled result would
// otherwise precede the instant.
func NextBoundary(s types.TimeSchedule, at time.Time, which Bound) time.Time {
	h, m := s.StartHour, s.StartMinute
	if which == BoundStop {
		h, m = s.StopHour, s.StopMinute
	}
	local := at.In(SAST)
	b := time.Date(local.Year(), local.Month(), local.Day(), h, m, 0, 0, SAST)
	if b.Before(local) {
		b = b.AddDate(0, 0, 1)
	}
	return b
}

// ActiveWindow returns the concrete [start, end) instance of the schedule's
// window that contains the instant. The start lands on the instant's SAST
// date, pulled back one day when containment came from the post-midnight arm
// of a wrapping window; the end always lands strictly after the start.
// Callers must only pass instants for which InWindow is true.
func ActiveWindow(s types.TimeSchedule, at time.Time) (time.Time, time.Time) {
	local := at.In(SAST)
	start := time.Date(local.Year(), local.Month(), local.Day(), s.StartHour, s.StartMinute, 0, 0, SAST)
	if start.After(local) {
		start = start.AddDate(0, 0, -1)
	}
	end := time.Date(local.Year(), local.Month(), local.Day(), s.StopHour, s.StopMinute, 0, 0, SAST)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}
