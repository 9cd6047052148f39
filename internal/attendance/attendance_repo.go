package attendance

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusRow is the slim projection used by the per-member stats aggregation.
type StatusRow struct {
	MemberID string
	Status   string
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	State(ctx context.Context, scheduleID, memberID string) (RecordState, error)
	Insert(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	Delete(ctx context.Context, scheduleID, memberID string) error
	DeleteBySchedule(ctx context.Context, scheduleID string, memberIDs []string) error
	UpsertMany(ctx context.Context, rows []Attendance) error
	FindAllBySchedule(ctx context.Context, scheduleID string) ([]Attendance, error)
	FindStatusesInSchedules(ctx context.Context, scheduleIDs []string) ([]StatusRow, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// State resolves the (schedule, member) pair to a decided or undecided value,
// so callers branch exhaustively instead of testing for a missing row.
func (r *repository) State(ctx context.Context, scheduleID, memberID string) (RecordState, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Where("member_id = ?", memberID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordState{Decided: false}, nil
		}
		return RecordState{}, err
	}
	return RecordState{Decided: true, Record: a}, nil
}

func (r *repository) Insert(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, scheduleID, memberID string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Where("member_id = ?", memberID).
		Delete(&Attendance{}).Error
}

func (r *repository) DeleteBySchedule(ctx context.Context, scheduleID string, memberIDs []string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Where("member_id IN ?", memberIDs).
		Delete(&Attendance{}).Error
}

// UpsertMany writes one row per member in a single ON CONFLICT statement on
// the (schedule_id, member_id) key. Only status and checked_at are replaced
// on conflict; excuse and checkout fields stay untouched.
func (r *repository) UpsertMany(ctx context.Context, rows []Attendance) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "schedule_id"}, {Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "checked_at", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *repository) FindAllBySchedule(ctx context.Context, scheduleID string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("checked_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindStatusesInSchedules(ctx context.Context, scheduleIDs []string) ([]StatusRow, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	var rows []StatusRow
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Select("member_id, status").
		Where("schedule_id IN ?", scheduleIDs).
		Scan(&rows).Error
	return rows, err
}
