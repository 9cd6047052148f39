package attendance

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type SetStatusRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Status   string `json:"status" binding:"required,oneof=present late early_leave absent undecided"`
}

type BulkStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=present absent undecided"`
}

type SubmitExcuseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReviewExcuseRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Approve  bool   `json:"approve"`
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	ScheduleID        string   `json:"schedule_id"`
	MemberID          string   `json:"member_id"`
	Status            string   `json:"status"`
	CheckedAt         string   `json:"checked_at"`
	CheckInLatitude   *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64 `json:"check_in_longitude,omitempty"`
	CheckedOutAt      *string  `json:"checked_out_at,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	ExcuseReason      *string  `json:"excuse_reason,omitempty"`
	ExcuseStatus      *string  `json:"excuse_status,omitempty"`
}

// BulkResult reports a bulk operation's aggregate outcome. The written count
// is informational only; callers must re-fetch the schedule's records instead
// of trusting the echo.
type BulkResult struct {
	ScheduleID string `json:"schedule_id"`
	Status     string `json:"status"`
	Members    int    `json:"members"`
}

type MemberStat struct {
	MemberID    string  `json:"member_id"`
	DisplayName string  `json:"display_name"`
	Present     int     `json:"present"`
	Late        int     `json:"late"`
	EarlyLeave  int     `json:"early_leave"`
	Absent      int     `json:"absent"`
	Total       int     `json:"total"`
	Rate        float64 `json:"rate"`
}
