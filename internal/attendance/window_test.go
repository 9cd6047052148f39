package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"crewdeck/internal/schedule"
)

func rehearsalSchedule(start time.Time) schedule.Schedule {
	threshold := 10
	deadline := start.Add(30 * time.Minute)
	return schedule.Schedule{
		StartsAt:             start,
		EndsAt:               start.Add(2 * time.Hour),
		AttendanceDeadline:   &deadline,
		LateThresholdMinutes: &threshold,
	}
}

func TestInferStatus(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s := rehearsalSchedule(start)

	status, ok := InferStatus(s, start.Add(5*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, StatusPresent, status)

	// exactly at the threshold still counts as present
	status, ok = InferStatus(s, start.Add(10*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, StatusPresent, status)

	status, ok = InferStatus(s, start.Add(20*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, StatusLate, status)

	// past the deadline nothing can be inferred
	_, ok = InferStatus(s, start.Add(45*time.Minute))
	assert.False(t, ok)
}

func TestInferStatus_NoThreshold(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s := rehearsalSchedule(start)
	s.LateThresholdMinutes = nil

	// any arrival after the start is late when no grace period is set
	status, ok := InferStatus(s, start.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, StatusLate, status)

	status, ok = InferStatus(s, start)
	assert.True(t, ok)
	assert.Equal(t, StatusPresent, status)
}

func TestInferStatus_NoDeadline(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s := rehearsalSchedule(start)
	s.AttendanceDeadline = nil

	// without a deadline the event end bounds late arrivals
	status, ok := InferStatus(s, s.EndsAt)
	assert.True(t, ok)
	assert.Equal(t, StatusLate, status)

	_, ok = InferStatus(s, s.EndsAt.Add(time.Minute))
	assert.False(t, ok)
}

func TestIsWithinCheckInWindow(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s := rehearsalSchedule(start)

	assert.False(t, IsWithinCheckInWindow(s, start.Add(-time.Minute)))
	assert.True(t, IsWithinCheckInWindow(s, start))
	assert.True(t, IsWithinCheckInWindow(s, start.Add(90*time.Minute)))
	assert.True(t, IsWithinCheckInWindow(s, s.EndsAt))
	assert.False(t, IsWithinCheckInWindow(s, s.EndsAt.Add(time.Minute)))
}

func TestIsWithinCheckInWindow_DeadlineAfterEnd(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s := rehearsalSchedule(start)
	deadline := s.EndsAt.Add(time.Hour)
	s.AttendanceDeadline = &deadline

	// a deadline past the event end keeps the window open
	assert.True(t, IsWithinCheckInWindow(s, s.EndsAt.Add(30*time.Minute)))
	assert.False(t, IsWithinCheckInWindow(s, deadline.Add(time.Minute)))
}

func TestIsWithinCheckoutWindow(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s := rehearsalSchedule(start)

	assert.False(t, IsWithinCheckoutWindow(s, start.Add(-time.Minute)))
	assert.True(t, IsWithinCheckoutWindow(s, start.Add(time.Hour)))
	assert.True(t, IsWithinCheckoutWindow(s, s.EndsAt))
	assert.False(t, IsWithinCheckoutWindow(s, s.EndsAt.Add(time.Second)))
}
