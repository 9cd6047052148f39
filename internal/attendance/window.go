package attendance

import (
	"time"

	"crewdeck/internal/schedule"
)

// Window evaluation. Pure functions of the schedule's configured times and
// the supplied clock reading; no side effects.

// checkInCloseTime is the later of the event end and the attendance deadline.
// A deadline, when set, wins over the event end.
func checkInCloseTime(s schedule.Schedule) time.Time {
	if s.AttendanceDeadline != nil && s.AttendanceDeadline.After(s.EndsAt) {
		return *s.AttendanceDeadline
	}
	return s.EndsAt
}

// lateCutoff is the last moment a check-in still counts as present.
func lateCutoff(s schedule.Schedule) time.Time {
	if s.LateThresholdMinutes == nil {
		return s.StartsAt
	}
	return s.StartsAt.Add(time.Duration(*s.LateThresholdMinutes) * time.Minute)
}

// statusCutoff is the last moment any automatic status can be inferred.
func statusCutoff(s schedule.Schedule) time.Time {
	if s.AttendanceDeadline != nil {
		return *s.AttendanceDeadline
	}
	return s.EndsAt
}

// IsWithinCheckInWindow reports whether a check-in may be attempted at all.
// The window opens at the event start (no pre-window is configured) and
// closes at the later of the event end and the attendance deadline.
func IsWithinCheckInWindow(s schedule.Schedule, now time.Time) bool {
	if now.Before(s.StartsAt) {
		return false
	}
	return !now.After(checkInCloseTime(s))
}

// InferStatus derives the status a self-service check-in at the given moment
// would produce. ok is false once the deadline has passed; callers must treat
// that as a hard rejection, never as a fallback to present.
func InferStatus(s schedule.Schedule, now time.Time) (status string, ok bool) {
	if !now.After(lateCutoff(s)) {
		return StatusPresent, true
	}
	if !now.After(statusCutoff(s)) {
		return StatusLate, true
	}
	return "", false
}

// IsWithinCheckoutWindow reports whether a checkout may be recorded. Checkout
// is bounded by the event itself, independent of the check-in deadline.
func IsWithinCheckoutWindow(s schedule.Schedule, now time.Time) bool {
	return !now.Before(s.StartsAt) && !now.After(s.EndsAt)
}
