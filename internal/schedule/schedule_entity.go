package schedule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crewdeck/internal/geo"
)

const (
	// Attendance methods. MethodLocation gates self-service check-in on the
	// event geofence; MethodAdminEntry leaves status changes to organizers.
	MethodNone       = "none"
	MethodAdminEntry = "admin_entry"
	MethodLocation   = "location"
)

type Schedule struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID              uuid.UUID      `gorm:"column:group_id;type:uuid;not null;index"`
	Title                string         `gorm:"column:title;type:varchar(200);not null"`
	Description          *string        `gorm:"column:description;type:text"`
	LocationName         *string        `gorm:"column:location_name;type:varchar(200)"`
	Latitude             *float64       `gorm:"column:latitude"`
	Longitude            *float64       `gorm:"column:longitude"`
	AttendanceMethod     string         `gorm:"column:attendance_method;type:varchar(20);not null;default:admin_entry"`
	StartsAt             time.Time      `gorm:"column:starts_at;type:timestamptz;not null;index"`
	EndsAt               time.Time      `gorm:"column:ends_at;type:timestamptz;not null"`
	AttendanceDeadline   *time.Time     `gorm:"column:attendance_deadline;type:timestamptz"`
	LateThresholdMinutes *int           `gorm:"column:late_threshold_minutes"`
	RequireCheckout      bool           `gorm:"column:require_checkout;not null;default:false"`
	CreatedBy            uuid.UUID      `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt            time.Time      `gorm:"column:created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// Venue returns the event's geofence center, if one is configured.
func (s Schedule) Venue() (geo.Point, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Latitude: *s.Latitude, Longitude: *s.Longitude}, true
}
