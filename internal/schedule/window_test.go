package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvanzyl/shedwatch/pkg/types"
)

func sched(startH, startM, stopH, stopM int) types.TimeSchedule {
	return types.TimeSchedule{
		ID:          "win",
		StartHour:   startH,
		StartMinute: startM,
		StopHour:    stopH,
		StopMinute:  stopM,
	}
}

func at(h, m int) time.Time {
	return time.Date(2023, 7, 1, h, m, 0, 0, SAST)
}

func TestInWindow_Bounds(t *testing.T) {
	s := sched(20, 0, 22, 30)

	assert.True(t, InWindow(s, at(20, 0)), "start bound is inclusive")
	assert.True(t, InWindow(s, at(22, 29)))
	assert.False(t, InWindow(s, at(22, 30)), "stop bound is exclusive")
	assert.False(t, InWindow(s, at(19, 59)))
}

func TestInWindow_Wraparound(t *testing.T) {
	s := sched(22, 0, 0, 30)
	require.True(t, Wraps(s))

	tests := []struct {
		name string
		h, m int
		want bool
	}{
		{"at start", 22, 0, true},
		{"before midnight", 23, 59, true},
		{"at midnight", 0, 0, true},
		{"just before stop", 0, 29, true},
		{"at stop", 0, 30, false},
		{"midday", 12, 0, false},
		{"just before start", 21, 59, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(s, at(tt.h, tt.m)))
		})
	}
}

func TestInWindow_UsesSAST(t *testing.T) {
	s := sched(20, 0, 22, 30)
	// 18:30 UTC is 20:30 SAST.
	utc := time.Date(2023, 7, 1, 18, 30, 0, 0, time.UTC)
	assert.True(t, InWindow(s, utc))
}

func TestNextBoundary_SameDay(t *testing.T) {
	s := sched(20, 0, 22, 30)
	now := at(19, 0)

	start := NextBoundary(s, now, BoundStart)
	assert.Equal(t, at(20, 0), start)

	stop := NextBoundary(s, now, BoundStop)
	assert.Equal(t, at(22, 30), stop)
}

func TestNextBoundary_AdvancesPastBoundary(t *testing.T) {
	s := sched(20, 0, 22, 30)
	now := at(21, 0)

	start := NextBoundary(s, now, BoundStart)
	assert.Equal(t, at(20, 0).AddDate(0, 0, 1), start, "start already passed, rolls to tomorrow")

	stop := NextBoundary(s, now, BoundStop)
	assert.Equal(t, at(22, 30), stop)
}

func TestNextBoundary_ExactBoundaryStays(t *testing.T) {
	s := sched(20, 0, 22, 30)
	start := NextBoundary(s, at(20, 0), BoundStart)
	assert.Equal(t, at(20, 0), start)
}

func TestActiveWindow_Plain(t *testing.T) {
	s := sched(4, 0, 6, 30)
	start, end := ActiveWindow(s, at(5, 0))
	assert.Equal(t, at(4, 0), start, "window start may precede the instant")
	assert.Equal(t, at(6, 30), end)
}

func TestActiveWindow_WrapBeforeMidnight(t *testing.T) {
	s := sched(22, 0, 0, 30)
	start, end := ActiveWindow(s, at(23, 0))
	assert.Equal(t, at(22, 0), start)
	assert.Equal(t, time.Date(2023, 7, 2, 0, 30, 0, 0, SAST), end)
}

func TestActiveWindow_WrapAfterMidnight(t *testing.T) {
	s := sched(22, 0, 0, 30)
	start, end := ActiveWindow(s, at(0, 15))
	assert.Equal(t, time.Date(2023, 6, 30, 22, 0, 0, 0, SAST), start,
		"post-midnight containment pulls the start onto the previous day")
	assert.Equal(t, at(0, 30), end)
	assert.True(t, end.After(start))
}
