package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	attendanceerrors "crewdeck/internal/attendance/errors"
	"crewdeck/internal/events"
	"crewdeck/internal/geo"
	"crewdeck/internal/location"
	"crewdeck/internal/member"
	"crewdeck/internal/messaging/kafka"
	"crewdeck/internal/schedule"
	"crewdeck/internal/shared/apperror"
)

type fakeRepo struct {
	withTxFn                  func(tx *sql.Tx) Repository
	stateFn                   func(ctx context.Context, scheduleID, memberID string) (RecordState, error)
	insertFn                  func(ctx context.Context, a *Attendance) error
	updateFn                  func(ctx context.Context, a *Attendance) error
	deleteFn                  func(ctx context.Context, scheduleID, memberID string) error
	deleteByScheduleFn        func(ctx context.Context, scheduleID string, memberIDs []string) error
	upsertManyFn              func(ctx context.Context, rows []Attendance) error
	findAllByScheduleFn       func(ctx context.Context, scheduleID string) ([]Attendance, error)
	findStatusesInSchedulesFn func(ctx context.Context, scheduleIDs []string) ([]StatusRow, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) State(ctx context.Context, scheduleID, memberID string) (RecordState, error) {
	return f.stateFn(ctx, scheduleID, memberID)
}
func (f *fakeRepo) Insert(ctx context.Context, a *Attendance) error { return f.insertFn(ctx, a) }
func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error { return f.updateFn(ctx, a) }
func (f *fakeRepo) Delete(ctx context.Context, scheduleID, memberID string) error {
	return f.deleteFn(ctx, scheduleID, memberID)
}
func (f *fakeRepo) DeleteBySchedule(ctx context.Context, scheduleID string, memberIDs []string) error {
	return f.deleteByScheduleFn(ctx, scheduleID, memberIDs)
}
func (f *fakeRepo) UpsertMany(ctx context.Context, rows []Attendance) error {
	return f.upsertManyFn(ctx, rows)
}
func (f *fakeRepo) FindAllBySchedule(ctx context.Context, scheduleID string) ([]Attendance, error) {
	return f.findAllByScheduleFn(ctx, scheduleID)
}
func (f *fakeRepo) FindStatusesInSchedules(ctx context.Context, scheduleIDs []string) ([]StatusRow, error) {
	return f.findStatusesInSchedulesFn(ctx, scheduleIDs)
}

type fakeScheduleRepo struct {
	findByIDAndGroupFn       func(ctx context.Context, groupID, id string) (*schedule.Schedule, error)
	findIDsByGroupAndRangeFn func(ctx context.Context, groupID string, from, to *string) ([]string, error)
}

func (f *fakeScheduleRepo) Create(ctx context.Context, s *schedule.Schedule) error { return nil }
func (f *fakeScheduleRepo) FindByIDAndGroup(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
	return f.findByIDAndGroupFn(ctx, groupID, id)
}
func (f *fakeScheduleRepo) FindAllByGroup(ctx context.Context, groupID string) ([]schedule.Schedule, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) FindIDsByGroupAndRange(ctx context.Context, groupID string, from, to *string) ([]string, error) {
	return f.findIDsByGroupAndRangeFn(ctx, groupID, from, to)
}
func (f *fakeScheduleRepo) Update(ctx context.Context, s *schedule.Schedule) error { return nil }

type fakeMemberRepo struct {
	findAllByGroupFn func(ctx context.Context, groupID string) ([]member.Member, error)
	existsInGroupFn  func(ctx context.Context, groupID, memberID string) (bool, error)
}

func (f *fakeMemberRepo) FindAllByGroup(ctx context.Context, groupID string) ([]member.Member, error) {
	return f.findAllByGroupFn(ctx, groupID)
}
func (f *fakeMemberRepo) ExistsInGroup(ctx context.Context, groupID, memberID string) (bool, error) {
	return f.existsInGroupFn(ctx, groupID, memberID)
}

func newTestFakes() (*fakeRepo, *fakeScheduleRepo, *fakeMemberRepo) {
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.stateFn = func(ctx context.Context, scheduleID, memberID string) (RecordState, error) {
		return RecordState{}, nil
	}
	repo.insertFn = func(ctx context.Context, a *Attendance) error { return nil }
	repo.updateFn = func(ctx context.Context, a *Attendance) error { return nil }

	schedRepo := &fakeScheduleRepo{}
	memRepo := &fakeMemberRepo{
		existsInGroupFn: func(ctx context.Context, groupID, memberID string) (bool, error) { return true, nil },
	}
	return repo, schedRepo, memRepo
}

func locationSchedule(start time.Time) *schedule.Schedule {
	lat, lng := 0.0, 0.0
	threshold := 10
	deadline := start.Add(30 * time.Minute)
	return &schedule.Schedule{
		ID:                   uuid.New(),
		GroupID:              uuid.New(),
		Title:                "weekly rehearsal",
		Latitude:             &lat,
		Longitude:            &lng,
		AttendanceMethod:     schedule.MethodLocation,
		StartsAt:             start,
		EndsAt:               start.Add(2 * time.Hour),
		AttendanceDeadline:   &deadline,
		LateThresholdMinutes: &threshold,
	}
}

func coordsProvider(lat, lng float64) location.Provider {
	return location.FromCoords(&lat, &lng)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestService_CheckIn_Present(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()
	ctx := context.Background()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	var saved Attendance
	repo.insertFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	// 40m north of the venue, inside the 100m fence
	resp, err := svc.CheckIn(ctx, sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0.00036, 0))
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.Equal(t, StatusPresent, saved.Status)
	assert.NotNil(t, saved.CheckInLatitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_Late(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-20 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.NoError(t, err)
	assert.Equal(t, StatusLate, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_SecondAttemptUpdates(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	existing := Attendance{
		ID:         uuid.New(),
		ScheduleID: sched.ID,
		MemberID:   uuid.MustParse(memberID),
		Status:     StatusPresent,
		CheckedAt:  time.Now().UTC().Add(-2 * time.Minute),
	}

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	repo.stateFn = func(ctx context.Context, scheduleID, mID string) (RecordState, error) {
		return RecordState{Decided: true, Record: existing}, nil
	}
	inserted, updated := false, false
	repo.insertFn = func(ctx context.Context, a *Attendance) error { inserted = true; return nil }
	var saved Attendance
	repo.updateFn = func(ctx context.Context, a *Attendance) error { updated = true; saved = *a; return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.True(t, updated)
	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.True(t, saved.CheckedAt.After(existing.CheckedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_DeadlinePassed(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	// 45 minutes in, deadline was 30 minutes after start, event still running
	sched := locationSchedule(time.Now().UTC().Add(-45 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrDeadlinePassed)
}

func TestService_CheckIn_WindowNotOpen(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(time.Hour))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrWindowClosed)
}

func TestService_CheckIn_OutOfRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	// roughly 167m north of the venue
	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0.0015, 0))
	assert.Equal(t, attendanceerrors.CodeOutOfRange, appCode(t, err))

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	details, ok := appErr.Details.(attendanceerrors.OutOfRangeDetails)
	assert.True(t, ok)
	assert.InDelta(t, 167, details.DistanceMeters, 2)
	assert.Equal(t, geo.DefaultCheckInRadiusMeters, details.RadiusMeters)
}

func TestService_CheckIn_MissingEventLocation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	sched.Latitude = nil
	sched.Longitude = nil
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrMissingEventLocation)
}

func TestService_CheckIn_LocationUnavailable(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, location.FromCoords(nil, nil))
	assert.ErrorIs(t, err, attendanceerrors.ErrLocationUnavailable)
}

func TestService_CheckIn_WrongMethod(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	sched.AttendanceMethod = schedule.MethodAdminEntry
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrSelfCheckInNotAllowed)
}

func TestService_CheckIn_AlreadyInProgress(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	started := make(chan struct{})
	release := make(chan struct{})
	blocking := location.Func(func(ctx context.Context) (geo.Point, error) {
		close(started)
		<-release
		return geo.Point{}, nil
	})

	mock.ExpectBegin()
	mock.ExpectCommit()

	done := make(chan error, 1)
	go func() {
		_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, blocking)
		done <- err
	}()

	<-started
	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyInProgress)

	close(release)
	assert.NoError(t, <-done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_DegradesWithoutLocation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-time.Hour))
	sched.RequireCheckout = true
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	repo.stateFn = func(ctx context.Context, scheduleID, mID string) (RecordState, error) {
		return RecordState{Decided: true, Record: Attendance{
			ID:         uuid.New(),
			ScheduleID: sched.ID,
			MemberID:   uuid.MustParse(memberID),
			Status:     StatusPresent,
			CheckedAt:  time.Now().UTC().Add(-time.Hour),
		}}, nil
	}
	var saved Attendance
	repo.updateFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	resp, err := svc.CheckOut(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, location.FromCoords(nil, nil))
	assert.NoError(t, err)
	assert.NotNil(t, resp.CheckedOutAt)
	assert.Nil(t, saved.CheckOutLatitude)
	assert.NotNil(t, saved.CheckedOutAt)
}

func TestService_CheckOut_NotCheckedIn(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-time.Hour))
	sched.RequireCheckout = true
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckOut(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrNotCheckedIn)
}

func TestService_CheckOut_AlreadyCheckedOut(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-time.Hour))
	sched.RequireCheckout = true
	memberID := uuid.New().String()
	out := time.Now().UTC().Add(-10 * time.Minute)

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	repo.stateFn = func(ctx context.Context, scheduleID, mID string) (RecordState, error) {
		return RecordState{Decided: true, Record: Attendance{
			Status:       StatusPresent,
			CheckedOutAt: &out,
		}}, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckOut(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
}

func TestService_CheckOut_NotRequired(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-time.Hour))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.CheckOut(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.ErrorIs(t, err, attendanceerrors.ErrCheckoutNotRequired)
}

func TestService_SetStatus_Insert(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	var saved Attendance
	repo.insertFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.SetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), SetStatusRequest{
		MemberID: memberID,
		Status:   StatusAbsent,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusAbsent, resp.Status)
	assert.Equal(t, StatusAbsent, saved.Status)
	assert.Nil(t, saved.CheckInLatitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SetStatus_UndecidedDeletes(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	deleted := false
	repo.deleteFn = func(ctx context.Context, scheduleID, mID string) error {
		deleted = true
		assert.Equal(t, memberID, mID)
		return nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	resp, err := svc.SetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), SetStatusRequest{
		MemberID: memberID,
		Status:   StatusUndecided,
	})
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, StatusUndecided, resp.Status)
}

func TestService_SetStatus_MemberOutsideGroup(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	memRepo.existsInGroupFn = func(ctx context.Context, groupID, memberID string) (bool, error) {
		return false, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.SetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), SetStatusRequest{
		MemberID: uuid.New().String(),
		Status:   StatusPresent,
	})
	assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
}

func TestService_BulkSetStatus_Present(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	roster := []member.Member{
		{ID: uuid.New(), DisplayName: "ayu"},
		{ID: uuid.New(), DisplayName: "bima"},
		{ID: uuid.New(), DisplayName: "citra"},
	}

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	memRepo.findAllByGroupFn = func(ctx context.Context, groupID string) ([]member.Member, error) {
		return roster, nil
	}
	var written []Attendance
	repo.upsertManyFn = func(ctx context.Context, rows []Attendance) error { written = rows; return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	before := time.Now().UTC()
	resp, err := svc.BulkSetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), StatusPresent)
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Members)
	assert.Len(t, written, 3)
	for _, row := range written {
		assert.Equal(t, StatusPresent, row.Status)
		assert.False(t, row.CheckedAt.Before(before))
		assert.Nil(t, row.ExcuseReason)
	}
}

func TestService_BulkSetStatus_UndecidedDeletes(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	roster := []member.Member{{ID: uuid.New()}, {ID: uuid.New()}}

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	memRepo.findAllByGroupFn = func(ctx context.Context, groupID string) ([]member.Member, error) {
		return roster, nil
	}
	var deletedIDs []string
	repo.deleteByScheduleFn = func(ctx context.Context, scheduleID string, memberIDs []string) error {
		deletedIDs = memberIDs
		return nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	resp, err := svc.BulkSetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), StatusUndecided)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Members)
	assert.Len(t, deletedIDs, 2)
}

func TestService_BulkSetStatus_InvalidStatus(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	memRepo.findAllByGroupFn = func(ctx context.Context, groupID string) ([]member.Member, error) {
		return nil, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.BulkSetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), StatusLate)
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidBulkStatus)
}

func TestService_BulkSetStatus_PartialFailureAggregates(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	roster := []member.Member{{ID: uuid.New()}}

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	memRepo.findAllByGroupFn = func(ctx context.Context, groupID string) ([]member.Member, error) {
		return roster, nil
	}
	repo.upsertManyFn = func(ctx context.Context, rows []Attendance) error {
		return errors.New("connection reset")
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.BulkSetStatus(context.Background(), sched.GroupID.String(), sched.ID.String(), StatusAbsent)
	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "re-fetch")
}

func TestService_SubmitExcuse(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	repo.stateFn = func(ctx context.Context, scheduleID, mID string) (RecordState, error) {
		return RecordState{Decided: true, Record: Attendance{Status: StatusAbsent}}, nil
	}
	var saved Attendance
	repo.updateFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	resp, err := svc.SubmitExcuse(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, SubmitExcuseRequest{
		Reason: "family emergency",
	})
	assert.NoError(t, err)
	assert.Equal(t, ExcusePending, *resp.ExcuseStatus)
	assert.Equal(t, "family emergency", *saved.ExcuseReason)
}

func TestService_SubmitExcuse_NoRecord(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.SubmitExcuse(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, SubmitExcuseRequest{
		Reason: "overslept",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrRecordNotFound)
}

func TestService_ReviewExcuse(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()
	pending := ExcusePending
	reason := "sick"

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	repo.stateFn = func(ctx context.Context, scheduleID, mID string) (RecordState, error) {
		return RecordState{Decided: true, Record: Attendance{
			Status:       StatusAbsent,
			ExcuseReason: &reason,
			ExcuseStatus: &pending,
		}}, nil
	}
	repo.updateFn = func(ctx context.Context, a *Attendance) error { return nil }

	svc := NewService(db, repo, schedRepo, memRepo)

	resp, err := svc.ReviewExcuse(context.Background(), sched.GroupID.String(), sched.ID.String(), ReviewExcuseRequest{
		MemberID: memberID,
		Approve:  true,
	})
	assert.NoError(t, err)
	assert.Equal(t, ExcuseApproved, *resp.ExcuseStatus)
}

func TestService_ReviewExcuse_NoneSubmitted(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}
	repo.stateFn = func(ctx context.Context, scheduleID, mID string) (RecordState, error) {
		return RecordState{Decided: true, Record: Attendance{Status: StatusAbsent}}, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	_, err := svc.ReviewExcuse(context.Background(), sched.GroupID.String(), sched.ID.String(), ReviewExcuseRequest{
		MemberID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrExcuseNotFound)
}

type fakeOutbox struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return f.createFn(ctx, event)
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func TestService_CheckIn_EmitsOutboxEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	sched := locationSchedule(time.Now().UTC().Add(-5 * time.Minute))
	memberID := uuid.New().String()

	repo, schedRepo, memRepo := newTestFakes()
	schedRepo.findByIDAndGroupFn = func(ctx context.Context, groupID, id string) (*schedule.Schedule, error) {
		return sched, nil
	}

	var written kafka.OutboxEvent
	outbox := &fakeOutbox{createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
		written = event
		return nil
	}}

	svc := NewServiceWithOutbox(db, repo, schedRepo, memRepo, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.CheckIn(context.Background(), sched.GroupID.String(), sched.ID.String(), memberID, coordsProvider(0, 0))
	assert.NoError(t, err)

	assert.Equal(t, events.AttendanceRecordedTopic, written.Topic)
	assert.Equal(t, "attendance", written.AggregateType)
	assert.Equal(t, sched.ID.String(), written.AggregateID)

	var event events.AttendanceRecordedEvent
	assert.NoError(t, json.Unmarshal(written.Payload, &event))
	assert.Equal(t, []string{memberID}, event.MemberIDs)
	assert.Equal(t, StatusPresent, event.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetMemberStats_CacheHit(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	groupID := uuid.New().String()
	cached := []MemberStat{{MemberID: uuid.New().String(), DisplayName: "ayu", Rate: 100}}
	payload, _ := json.Marshal(cached)

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet("attendance:stats:" + groupID + ":-:-").SetVal(string(payload))

	// repos stay nil-handed; a cache hit must not touch them
	repo := &fakeRepo{}
	schedRepo := &fakeScheduleRepo{}
	memRepo := &fakeMemberRepo{}

	svc := NewServiceWithOutbox(db, repo, schedRepo, memRepo, nil, rdb)

	stats, err := svc.GetMemberStats(context.Background(), groupID, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, cached, stats)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestService_GetMemberStats(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	groupID := uuid.New().String()
	ayu := member.Member{ID: uuid.New(), DisplayName: "ayu"}
	bima := member.Member{ID: uuid.New(), DisplayName: "bima"}
	scheduleIDs := []string{uuid.New().String(), uuid.New().String()}

	repo, schedRepo, memRepo := newTestFakes()
	memRepo.findAllByGroupFn = func(ctx context.Context, gID string) ([]member.Member, error) {
		return []member.Member{ayu, bima}, nil
	}
	schedRepo.findIDsByGroupAndRangeFn = func(ctx context.Context, gID string, from, to *string) ([]string, error) {
		return scheduleIDs, nil
	}
	repo.findStatusesInSchedulesFn = func(ctx context.Context, ids []string) ([]StatusRow, error) {
		return []StatusRow{
			{MemberID: ayu.ID.String(), Status: StatusPresent},
			{MemberID: ayu.ID.String(), Status: StatusLate},
			{MemberID: bima.ID.String(), Status: StatusPresent},
		}, nil
	}

	svc := NewService(db, repo, schedRepo, memRepo)

	stats, err := svc.GetMemberStats(context.Background(), groupID, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, stats, 2)

	// ayu attended both, bima missed one; sorted by rate descending
	assert.Equal(t, "ayu", stats[0].DisplayName)
	assert.Equal(t, 100.0, stats[0].Rate)
	assert.Equal(t, 1, stats[0].Present)
	assert.Equal(t, 1, stats[0].Late)
	assert.Equal(t, 0, stats[0].Absent)

	assert.Equal(t, "bima", stats[1].DisplayName)
	assert.Equal(t, 50.0, stats[1].Rate)
	assert.Equal(t, 1, stats[1].Absent)
}
