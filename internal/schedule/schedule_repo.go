package schedule

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, s *Schedule) error
	FindByIDAndGroup(ctx context.Context, groupID, id string) (*Schedule, error)
	FindAllByGroup(ctx context.Context, groupID string) ([]Schedule, error)
	FindIDsByGroupAndRange(ctx context.Context, groupID string, from, to *string) ([]string, error)
	Update(ctx context.Context, s *Schedule) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Schedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByIDAndGroup(ctx context.Context, groupID, id string) (*Schedule, error) {
	var s Schedule
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Where("id = ?", id).
		First(&s).Error
	return &s, err
}

func (r *repository) FindAllByGroup(ctx context.Context, groupID string) ([]Schedule, error) {
	var rows []Schedule
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("starts_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindIDsByGroupAndRange lists ids of schedules that track attendance within
// an optional starts_at range. Feeds the per-member stats aggregation.
func (r *repository) FindIDsByGroupAndRange(ctx context.Context, groupID string, from, to *string) ([]string, error) {
	q := r.db.WithContext(ctx).
		Model(&Schedule{}).
		Where("group_id = ?", groupID).
		Where("attendance_method <> ?", MethodNone)
	if from != nil {
		q = q.Where("starts_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("starts_at <= ?", *to)
	}

	var ids []string
	err := q.Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) Update(ctx context.Context, s *Schedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}
