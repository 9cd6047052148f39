package streak

import (
	"time"

	"github.com/google/uuid"
)

// Streak tracks consecutive attended schedules per member. Present and late
// check-ins extend the run; an absence resets it.
type Streak struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID       uuid.UUID `gorm:"column:group_id;type:uuid;not null;uniqueIndex:idx_streaks_group_member"`
	MemberID      uuid.UUID `gorm:"column:member_id;type:uuid;not null;uniqueIndex:idx_streaks_group_member"`
	CurrentStreak int       `gorm:"column:current_streak;not null;default:0"`
	BestStreak    int       `gorm:"column:best_streak;not null;default:0"`
	LastStatus    string    `gorm:"column:last_status;type:varchar(20)"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (Streak) TableName() string {
	return "attendance_streaks"
}
