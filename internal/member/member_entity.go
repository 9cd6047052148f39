package member

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOrganizer = "organizer"
	RoleMember    = "member"
)

type Member struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID     uuid.UUID      `gorm:"column:group_id;type:uuid;not null;index"`
	DisplayName string         `gorm:"column:display_name;type:varchar(100);not null"`
	Role        string         `gorm:"column:role;type:varchar(20);not null;default:member"`
	JoinedAt    time.Time      `gorm:"column:joined_at;type:timestamptz"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Member) TableName() string {
	return "members"
}
