package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	scheduleerrors "crewdeck/internal/schedule/errors"
)

type fakeRepo struct {
	createFn           func(ctx context.Context, s *Schedule) error
	findByIDAndGroupFn func(ctx context.Context, groupID, id string) (*Schedule, error)
	findAllByGroupFn   func(ctx context.Context, groupID string) ([]Schedule, error)
	updateFn           func(ctx context.Context, s *Schedule) error
}

func (f *fakeRepo) Create(ctx context.Context, s *Schedule) error { return f.createFn(ctx, s) }
func (f *fakeRepo) FindByIDAndGroup(ctx context.Context, groupID, id string) (*Schedule, error) {
	return f.findByIDAndGroupFn(ctx, groupID, id)
}
func (f *fakeRepo) FindAllByGroup(ctx context.Context, groupID string) ([]Schedule, error) {
	return f.findAllByGroupFn(ctx, groupID)
}
func (f *fakeRepo) FindIDsByGroupAndRange(ctx context.Context, groupID string, from, to *string) ([]string, error) {
	return nil, nil
}
func (f *fakeRepo) Update(ctx context.Context, s *Schedule) error { return f.updateFn(ctx, s) }

func validCreateRequest() CreateScheduleRequest {
	lat, lng := -6.2, 106.8
	threshold := 15
	return CreateScheduleRequest{
		Title:                "saturday rehearsal",
		Latitude:             &lat,
		Longitude:            &lng,
		AttendanceMethod:     MethodLocation,
		StartsAt:             "2026-09-05T10:00:00Z",
		EndsAt:               "2026-09-05T12:00:00Z",
		LateThresholdMinutes: &threshold,
	}
}

func TestService_Create(t *testing.T) {
	groupID := uuid.New().String()
	actorID := uuid.New().String()

	var saved Schedule
	repo := &fakeRepo{
		createFn: func(ctx context.Context, s *Schedule) error { saved = *s; return nil },
	}
	svc := NewService(repo)

	resp, err := svc.Create(context.Background(), groupID, actorID, validCreateRequest())
	assert.NoError(t, err)
	assert.Equal(t, "saturday rehearsal", resp.Title)
	assert.Equal(t, MethodLocation, saved.AttendanceMethod)
	assert.Equal(t, actorID, saved.CreatedBy.String())
	assert.Equal(t, time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC), saved.StartsAt)
}

func TestService_Create_LocationMethodRequiresCoords(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	req := validCreateRequest()
	req.Latitude = nil

	_, err := svc.Create(context.Background(), uuid.New().String(), uuid.New().String(), req)
	assert.ErrorIs(t, err, scheduleerrors.ErrLocationRequired)
}

func TestService_Create_InvalidTimeRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	req := validCreateRequest()
	req.EndsAt = req.StartsAt

	_, err := svc.Create(context.Background(), uuid.New().String(), uuid.New().String(), req)
	assert.ErrorIs(t, err, scheduleerrors.ErrInvalidTimeRange)
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := &fakeRepo{
		findByIDAndGroupFn: func(ctx context.Context, groupID, id string) (*Schedule, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo)

	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, scheduleerrors.ErrScheduleNotFound)
}

func TestService_Update_CannotDropCoordsFromLocatedEvent(t *testing.T) {
	lat, lng := -6.2, 106.8
	existing := Schedule{
		ID:               uuid.New(),
		GroupID:          uuid.New(),
		Title:            "rehearsal",
		Latitude:         &lat,
		Longitude:        &lng,
		AttendanceMethod: MethodAdminEntry,
		StartsAt:         time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC),
		EndsAt:           time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC),
	}

	repo := &fakeRepo{
		findByIDAndGroupFn: func(ctx context.Context, groupID, id string) (*Schedule, error) {
			s := existing
			s.Latitude = nil
			s.Longitude = nil
			return &s, nil
		},
	}
	svc := NewService(repo)

	method := MethodLocation
	_, err := svc.Update(context.Background(), existing.GroupID.String(), existing.ID.String(), UpdateScheduleRequest{
		AttendanceMethod: &method,
	})
	assert.ErrorIs(t, err, scheduleerrors.ErrLocationRequired)
}

func TestService_Update(t *testing.T) {
	existing := Schedule{
		ID:               uuid.New(),
		GroupID:          uuid.New(),
		Title:            "rehearsal",
		AttendanceMethod: MethodAdminEntry,
		StartsAt:         time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC),
		EndsAt:           time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC),
	}

	var saved Schedule
	repo := &fakeRepo{
		findByIDAndGroupFn: func(ctx context.Context, groupID, id string) (*Schedule, error) {
			s := existing
			return &s, nil
		},
		updateFn: func(ctx context.Context, s *Schedule) error { saved = *s; return nil },
	}
	svc := NewService(repo)

	title := "dress rehearsal"
	checkout := true
	resp, err := svc.Update(context.Background(), existing.GroupID.String(), existing.ID.String(), UpdateScheduleRequest{
		Title:           &title,
		RequireCheckout: &checkout,
	})
	assert.NoError(t, err)
	assert.Equal(t, "dress rehearsal", resp.Title)
	assert.True(t, saved.RequireCheckout)
	// untouched fields survive the patch
	assert.Equal(t, MethodAdminEntry, saved.AttendanceMethod)
}
