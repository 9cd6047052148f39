package events

import "time"

const AttendanceRecordedTopic = "crew.attendance.recorded.v1"

// AttendanceRecordedEvent is emitted whenever one or more members receive a
// concrete attendance status. Bulk operations carry the whole roster in
// MemberIDs; single transitions carry one element.
type AttendanceRecordedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	GroupID    string    `json:"group_id"`
	ScheduleID string    `json:"schedule_id"`
	MemberIDs  []string  `json:"member_ids"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
