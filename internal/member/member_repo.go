package member

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=member_repo.go -destination=mock/member_repo_mock.go -package=mock
type Repository interface {
	FindAllByGroup(ctx context.Context, groupID string) ([]Member, error)
	ExistsInGroup(ctx context.Context, groupID, memberID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAllByGroup(ctx context.Context, groupID string) ([]Member, error) {
	var rows []Member
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("display_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsInGroup(ctx context.Context, groupID, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Member{}).
		Where("group_id = ?", groupID).
		Where("id = ?", memberID).
		Count(&count).Error
	return count > 0, err
}
