package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent    = "present"
	StatusLate       = "late"
	StatusEarlyLeave = "early_leave"
	StatusAbsent     = "absent"

	// StatusUndecided is not a stored status. It names the absence of a row
	// and is only valid as a bulk-operation target (reset).
	StatusUndecided = "undecided"
)

const (
	ExcusePending  = "pending"
	ExcuseApproved = "approved"
	ExcuseRejected = "rejected"
)

// ValidStatus reports whether s is a storable attendance status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusLate, StatusEarlyLeave, StatusAbsent:
		return true
	default:
		return false
	}
}

// Checkable reports whether a status counts as having attended, which is what
// gates the checkout workflow.
func Checkable(s string) bool {
	switch s {
	case StatusPresent, StatusLate, StatusEarlyLeave:
		return true
	default:
		return false
	}
}

// Attendance is one member's record for one schedule. The store enforces at
// most one row per (schedule_id, member_id).
type Attendance struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ScheduleID        uuid.UUID  `gorm:"column:schedule_id;type:uuid;not null;uniqueIndex:idx_attendance_schedule_member"`
	MemberID          uuid.UUID  `gorm:"column:member_id;type:uuid;not null;uniqueIndex:idx_attendance_schedule_member"`
	Status            string     `gorm:"column:status;type:varchar(20);not null"`
	CheckedAt         time.Time  `gorm:"column:checked_at;type:timestamptz;not null"`
	CheckInLatitude   *float64   `gorm:"column:check_in_latitude"`
	CheckInLongitude  *float64   `gorm:"column:check_in_longitude"`
	CheckedOutAt      *time.Time `gorm:"column:checked_out_at;type:timestamptz"`
	CheckOutLatitude  *float64   `gorm:"column:check_out_latitude"`
	CheckOutLongitude *float64   `gorm:"column:check_out_longitude"`
	ExcuseReason      *string    `gorm:"column:excuse_reason;type:text"`
	ExcuseStatus      *string    `gorm:"column:excuse_status;type:varchar(20)"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// RecordState is the result of a record lookup. Absence of a row means the
// member is undecided; callers branch on Decided instead of nil-checking.
type RecordState struct {
	Decided bool
	Record  Attendance
}
