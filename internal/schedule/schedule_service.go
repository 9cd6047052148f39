package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	scheduleerrors "crewdeck/internal/schedule/errors"
)

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, groupID, actorID string, req CreateScheduleRequest) (ScheduleResponse, error)
	GetAll(ctx context.Context, groupID string) ([]ScheduleResponse, error)
	GetByID(ctx context.Context, groupID, id string) (ScheduleResponse, error)
	Update(ctx context.Context, groupID, id string, req UpdateScheduleRequest) (ScheduleResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, groupID, actorID string, req CreateScheduleRequest) (ScheduleResponse, error) {
	groupUUID, err := uuid.Parse(groupID)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidGroupID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidGroupID
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeFormat
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeFormat
	}
	if !startsAt.Before(endsAt) {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeRange
	}

	var deadline *time.Time
	if req.AttendanceDeadline != nil {
		d, err := time.Parse(time.RFC3339, *req.AttendanceDeadline)
		if err != nil {
			return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeFormat
		}
		deadline = &d
	}

	// A located event without coordinates could never be checked into.
	if req.AttendanceMethod == MethodLocation && (req.Latitude == nil || req.Longitude == nil) {
		return ScheduleResponse{}, scheduleerrors.ErrLocationRequired
	}

	row := &Schedule{
		ID:                   uuid.New(),
		GroupID:              groupUUID,
		Title:                req.Title,
		Description:          req.Description,
		LocationName:         req.LocationName,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		AttendanceMethod:     req.AttendanceMethod,
		StartsAt:             startsAt,
		EndsAt:               endsAt,
		AttendanceDeadline:   deadline,
		LateThresholdMinutes: req.LateThresholdMinutes,
		RequireCheckout:      req.RequireCheckout,
		CreatedBy:            actorUUID,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("create schedule persist failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	s.logger.Info("schedule created",
		zap.String("schedule_id", row.ID.String()),
		zap.String("group_id", groupID),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, groupID string) ([]ScheduleResponse, error) {
	rows, err := s.repo.FindAllByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	res := make([]ScheduleResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, groupID, id string) (ScheduleResponse, error) {
	row, err := s.repo.FindByIDAndGroup(ctx, groupID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, groupID, id string, req UpdateScheduleRequest) (ScheduleResponse, error) {
	row, err := s.repo.FindByIDAndGroup(ctx, groupID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}

	if req.Title != nil {
		row.Title = *req.Title
	}
	if req.Description != nil {
		row.Description = req.Description
	}
	if req.LocationName != nil {
		row.LocationName = req.LocationName
	}
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.AttendanceMethod != nil {
		row.AttendanceMethod = *req.AttendanceMethod
	}
	if req.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeFormat
		}
		row.StartsAt = t
	}
	if req.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeFormat
		}
		row.EndsAt = t
	}
	if req.AttendanceDeadline != nil {
		t, err := time.Parse(time.RFC3339, *req.AttendanceDeadline)
		if err != nil {
			return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeFormat
		}
		row.AttendanceDeadline = &t
	}
	if req.LateThresholdMinutes != nil {
		row.LateThresholdMinutes = req.LateThresholdMinutes
	}
	if req.RequireCheckout != nil {
		row.RequireCheckout = *req.RequireCheckout
	}

	if !row.StartsAt.Before(row.EndsAt) {
		return ScheduleResponse{}, scheduleerrors.ErrInvalidTimeRange
	}
	if row.AttendanceMethod == MethodLocation && (row.Latitude == nil || row.Longitude == nil) {
		return ScheduleResponse{}, scheduleerrors.ErrLocationRequired
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update schedule persist failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	return mapToResponse(*row), nil
}

func mapToResponse(s Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:                   s.ID.String(),
		GroupID:              s.GroupID.String(),
		Title:                s.Title,
		Description:          s.Description,
		LocationName:         s.LocationName,
		Latitude:             s.Latitude,
		Longitude:            s.Longitude,
		AttendanceMethod:     s.AttendanceMethod,
		StartsAt:             s.StartsAt.Format(time.RFC3339),
		EndsAt:               s.EndsAt.Format(time.RFC3339),
		LateThresholdMinutes: s.LateThresholdMinutes,
		RequireCheckout:      s.RequireCheckout,
	}
	if s.AttendanceDeadline != nil {
		v := s.AttendanceDeadline.Format(time.RFC3339)
		resp.AttendanceDeadline = &v
	}
	return resp
}
