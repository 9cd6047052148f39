package schedule

type CreateScheduleRequest struct {
	Title                string   `json:"title" binding:"required"`
	Description          *string  `json:"description"`
	LocationName         *string  `json:"location_name"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	AttendanceMethod     string   `json:"attendance_method" binding:"required,oneof=none admin_entry location"`
	StartsAt             string   `json:"starts_at" binding:"required"`
	EndsAt               string   `json:"ends_at" binding:"required"`
	AttendanceDeadline   *string  `json:"attendance_deadline"`
	LateThresholdMinutes *int     `json:"late_threshold_minutes"`
	RequireCheckout      bool     `json:"require_checkout"`
}

type UpdateScheduleRequest struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	LocationName         *string  `json:"location_name"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	AttendanceMethod     *string  `json:"attendance_method" binding:"omitempty,oneof=none admin_entry location"`
	StartsAt             *string  `json:"starts_at"`
	EndsAt               *string  `json:"ends_at"`
	AttendanceDeadline   *string  `json:"attendance_deadline"`
	LateThresholdMinutes *int     `json:"late_threshold_minutes"`
	RequireCheckout      *bool    `json:"require_checkout"`
}

type ScheduleResponse struct {
	ID                   string   `json:"id"`
	GroupID              string   `json:"group_id"`
	Title                string   `json:"title"`
	Description          *string  `json:"description,omitempty"`
	LocationName         *string  `json:"location_name,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	AttendanceMethod     string   `json:"attendance_method"`
	StartsAt             string   `json:"starts_at"`
	EndsAt               string   `json:"ends_at"`
	AttendanceDeadline   *string  `json:"attendance_deadline,omitempty"`
	LateThresholdMinutes *int     `json:"late_threshold_minutes,omitempty"`
	RequireCheckout      bool     `json:"require_checkout"`
}
