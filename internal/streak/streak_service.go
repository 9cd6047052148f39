package streak

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crewdeck/internal/attendance"
)

//go:generate mockgen -source=streak_service.go -destination=mock/streak_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, groupID, memberID, status string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("streak.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("streak.service")
	}
	return &service{repo: repo, logger: l}
}

// Apply folds one recorded status into the member's streak counters.
// Present and late extend the run, absence resets it, early leave keeps the
// run but does not extend it.
func (s *service) Apply(ctx context.Context, groupID, memberID, status string) error {
	groupUUID, err := uuid.Parse(groupID)
	if err != nil {
		return err
	}
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return err
	}

	row, err := s.repo.FindByMember(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if row == nil {
		row = &Streak{
			ID:       uuid.New(),
			GroupID:  groupUUID,
			MemberID: memberUUID,
		}
	}

	switch status {
	case attendance.StatusPresent, attendance.StatusLate:
		row.CurrentStreak++
		if row.CurrentStreak > row.BestStreak {
			row.BestStreak = row.CurrentStreak
		}
	case attendance.StatusAbsent:
		row.CurrentStreak = 0
	case attendance.StatusEarlyLeave:
		// keeps the run alive without extending it
	default:
		s.logger.Warn("ignoring unknown status for streak",
			zap.String("member_id", memberID),
			zap.String("status", status),
		)
		return nil
	}
	row.LastStatus = status

	if err := s.repo.Save(ctx, row); err != nil {
		return err
	}

	s.logger.Debug("streak updated",
		zap.String("member_id", memberID),
		zap.String("status", status),
		zap.Int("current", row.CurrentStreak),
		zap.Int("best", row.BestStreak),
	)
	return nil
}
