package streak

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=streak_repo.go -destination=mock/streak_repo_mock.go -package=mock
type Repository interface {
	FindByMember(ctx context.Context, groupID, memberID string) (*Streak, error)
	Save(ctx context.Context, s *Streak) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByMember(ctx context.Context, groupID, memberID string) (*Streak, error) {
	var s Streak
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Where("member_id = ?", memberID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Save(ctx context.Context, s *Streak) error {
	return r.db.WithContext(ctx).Save(s).Error
}
