package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	attendanceerrors "crewdeck/internal/attendance/errors"
	"crewdeck/internal/events"
	"crewdeck/internal/geo"
	"crewdeck/internal/location"
	"crewdeck/internal/member"
	"crewdeck/internal/messaging/kafka"
	"crewdeck/internal/schedule"
	scheduleerrors "crewdeck/internal/schedule/errors"
	"crewdeck/internal/shared/apperror"
	"crewdeck/internal/shared/contextutil"
)

const statsCacheTTL = 60 * time.Second

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, groupID, scheduleID, memberID string, loc location.Provider) (AttendanceResponse, error)
	CheckOut(ctx context.Context, groupID, scheduleID, memberID string, loc location.Provider) (AttendanceResponse, error)
	SetStatus(ctx context.Context, groupID, scheduleID string, req SetStatusRequest) (AttendanceResponse, error)
	BulkSetStatus(ctx context.Context, groupID, scheduleID, status string) (BulkResult, error)
	SubmitExcuse(ctx context.Context, groupID, scheduleID, memberID string, req SubmitExcuseRequest) (AttendanceResponse, error)
	ReviewExcuse(ctx context.Context, groupID, scheduleID string, req ReviewExcuseRequest) (AttendanceResponse, error)
	GetBySchedule(ctx context.Context, groupID, scheduleID string) ([]AttendanceResponse, error)
	GetMemberStats(ctx context.Context, groupID string, from, to *string) ([]MemberStat, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	schedules schedule.Repository
	members   member.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	sf        *singleflight.Group
	guard     *inflightGuard
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	schedules schedule.Repository,
	members member.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, schedules, members, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	schedules schedule.Repository,
	members member.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		schedules: schedules,
		members:   members,
		outbox:    outboxRepo,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		guard:     newInflightGuard(),
		logger:    l,
	}
}

func (s *service) findSchedule(ctx context.Context, groupID, scheduleID string) (schedule.Schedule, error) {
	row, err := s.schedules.FindByIDAndGroup(ctx, groupID, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedule.Schedule{}, scheduleerrors.ErrScheduleNotFound
		}
		return schedule.Schedule{}, err
	}
	return *row, nil
}

// CheckIn runs the self-service transition for a location-method schedule.
// The target status is never chosen by the actor; it is inferred from the
// clock. Preconditions run strictly in order: window, inference, event
// location, device fix, geofence.
func (s *service) CheckIn(ctx context.Context, groupID, scheduleID, memberID string, loc location.Provider) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !s.guard.acquire(memberID) {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyInProgress
	}
	defer s.guard.release(memberID)

	sched, err := s.findSchedule(ctx, groupID, scheduleID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if sched.AttendanceMethod != schedule.MethodLocation {
		return AttendanceResponse{}, attendanceerrors.ErrSelfCheckInNotAllowed
	}

	now := time.Now().UTC()

	if !IsWithinCheckInWindow(sched, now) {
		return AttendanceResponse{}, attendanceerrors.ErrWindowClosed
	}

	status, ok := InferStatus(sched, now)
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrDeadlinePassed
	}

	venue, hasVenue := sched.Venue()
	if !hasVenue {
		return AttendanceResponse{}, attendanceerrors.ErrMissingEventLocation
	}

	// Acquire the fix before opening a transaction; it can block for up to
	// the full location timeout.
	position, err := location.Acquire(ctx, loc)
	if err != nil {
		return AttendanceResponse{}, mapLocationError(err)
	}

	distance := geo.DistanceMeters(position, venue)
	if !geo.WithinRadius(distance, geo.DefaultCheckInRadiusMeters) {
		s.logger.Debug("check-in rejected out of range",
			zap.String("member_id", memberID),
			zap.Float64("distance_m", distance),
		)
		return AttendanceResponse{}, attendanceerrors.OutOfRange(distance, geo.DefaultCheckInRadiusMeters)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := s.writeCheckIn(ctx, qtx, sched, memberID, status, now, position)
	if err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.emitRecorded(ctx, tx, rid, groupID, scheduleID, []string{memberID}, status, now); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-in recorded",
		zap.String("request_id", rid),
		zap.String("schedule_id", scheduleID),
		zap.String("member_id", memberID),
		zap.String("status", status),
		zap.Float64("distance_m", distance),
	)
	return mapToResponse(*row), nil
}

// writeCheckIn resolves insert-vs-update. The lookup and write are not atomic
// against concurrent writers; a losing insert trips the (schedule, member)
// uniqueness constraint and is retried as an update.
func (s *service) writeCheckIn(
	ctx context.Context,
	qtx Repository,
	sched schedule.Schedule,
	memberID, status string,
	now time.Time,
	position geo.Point,
) (*Attendance, error) {
	state, err := qtx.State(ctx, sched.ID.String(), memberID)
	if err != nil {
		return nil, err
	}

	if state.Decided {
		row := state.Record
		row.Status = status
		row.CheckedAt = now
		row.CheckInLatitude = &position.Latitude
		row.CheckInLongitude = &position.Longitude
		if err := qtx.Update(ctx, &row); err != nil {
			return nil, err
		}
		return &row, nil
	}

	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "invalid member id", http.StatusBadRequest)
	}
	row := &Attendance{
		ID:               uuid.New(),
		ScheduleID:       sched.ID,
		MemberID:         memberUUID,
		Status:           status,
		CheckedAt:        now,
		CheckInLatitude:  &position.Latitude,
		CheckInLongitude: &position.Longitude,
	}
	if err := qtx.Insert(ctx, row); err != nil {
		if !isUniqueViolation(err) {
			return nil, err
		}
		// lost the insert race; the constraint guarantees a row now exists
		state, err := qtx.State(ctx, sched.ID.String(), memberID)
		if err != nil {
			return nil, err
		}
		if !state.Decided {
			return nil, attendanceerrors.ErrRecordNotFound
		}
		existing := state.Record
		existing.Status = status
		existing.CheckedAt = now
		existing.CheckInLatitude = &position.Latitude
		existing.CheckInLongitude = &position.Longitude
		if err := qtx.Update(ctx, &existing); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return row, nil
}

// CheckOut records the end-of-event confirmation. Unlike check-in, a failed
// location fix does not block: the timestamp is still written, just without
// coordinates.
func (s *service) CheckOut(ctx context.Context, groupID, scheduleID, memberID string, loc location.Provider) (AttendanceResponse, error) {
	if !s.guard.acquire(memberID) {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyInProgress
	}
	defer s.guard.release(memberID)

	sched, err := s.findSchedule(ctx, groupID, scheduleID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !sched.RequireCheckout {
		return AttendanceResponse{}, attendanceerrors.ErrCheckoutNotRequired
	}

	now := time.Now().UTC()
	if !IsWithinCheckoutWindow(sched, now) {
		return AttendanceResponse{}, attendanceerrors.ErrCheckoutWindowClosed
	}

	state, err := s.repo.State(ctx, scheduleID, memberID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !state.Decided || !Checkable(state.Record.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
	}
	if state.Record.CheckedOutAt != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	row := state.Record
	row.CheckedOutAt = &now

	if sched.AttendanceMethod == schedule.MethodLocation {
		position, locErr := location.Acquire(ctx, loc)
		if locErr != nil {
			// degrade: checkout is lower-stakes proof of presence
			s.logger.Warn("checkout proceeding without coordinates",
				zap.String("schedule_id", scheduleID),
				zap.String("member_id", memberID),
				zap.Error(locErr),
			)
		} else {
			row.CheckOutLatitude = &position.Latitude
			row.CheckOutLongitude = &position.Longitude
		}
	}

	if err := s.repo.Update(ctx, &row); err != nil {
		s.logger.Error("checkout persist failed",
			zap.String("schedule_id", scheduleID),
			zap.String("member_id", memberID),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}

	s.logger.Info("checkout recorded",
		zap.String("schedule_id", scheduleID),
		zap.String("member_id", memberID),
	)
	return mapToResponse(row), nil
}

// SetStatus is the administrative transition: the actor picks the target
// status directly and no window or geofence check applies. Setting undecided
// deletes the record.
func (s *service) SetStatus(ctx context.Context, groupID, scheduleID string, req SetStatusRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !s.guard.acquire(req.MemberID) {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyInProgress
	}
	defer s.guard.release(req.MemberID)

	sched, err := s.findSchedule(ctx, groupID, scheduleID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	belongs, err := s.members.ExistsInGroup(ctx, groupID, req.MemberID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !belongs {
		return AttendanceResponse{}, apperror.New(apperror.CodeInvalidInput, "member does not belong to this group", http.StatusBadRequest)
	}

	if req.Status == StatusUndecided {
		if err := s.repo.Delete(ctx, scheduleID, req.MemberID); err != nil {
			return AttendanceResponse{}, err
		}
		s.logger.Info("attendance reset to undecided",
			zap.String("schedule_id", scheduleID),
			zap.String("member_id", req.MemberID),
		)
		return AttendanceResponse{
			ScheduleID: scheduleID,
			MemberID:   req.MemberID,
			Status:     StatusUndecided,
		}, nil
	}

	if !ValidStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set status begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	state, err := qtx.State(ctx, scheduleID, req.MemberID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	var row Attendance
	if state.Decided {
		row = state.Record
		row.Status = req.Status
		row.CheckedAt = now
		if err := qtx.Update(ctx, &row); err != nil {
			return AttendanceResponse{}, err
		}
	} else {
		memberUUID, err := uuid.Parse(req.MemberID)
		if err != nil {
			return AttendanceResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid member id", http.StatusBadRequest)
		}
		row = Attendance{
			ID:         uuid.New(),
			ScheduleID: sched.ID,
			MemberID:   memberUUID,
			Status:     req.Status,
			CheckedAt:  now,
		}
		if err := qtx.Insert(ctx, &row); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := s.emitRecorded(ctx, tx, rid, groupID, scheduleID, []string{req.MemberID}, req.Status, now); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set status commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance status set",
		zap.String("request_id", rid),
		zap.String("schedule_id", scheduleID),
		zap.String("member_id", req.MemberID),
		zap.String("status", req.Status),
	)
	return mapToResponse(row), nil
}

// BulkSetStatus applies one status to the whole roster, bypassing every
// window and geofence check. The operation is deliberately not atomic: a
// partial failure surfaces as one aggregate error and callers must re-fetch
// the schedule's records rather than trust either outcome.
func (s *service) BulkSetStatus(ctx context.Context, groupID, scheduleID, status string) (BulkResult, error) {
	rid := contextutil.GetRequestID(ctx)

	sched, err := s.findSchedule(ctx, groupID, scheduleID)
	if err != nil {
		return BulkResult{}, err
	}

	roster, err := s.members.FindAllByGroup(ctx, groupID)
	if err != nil {
		return BulkResult{}, err
	}
	memberIDs := make([]string, len(roster))
	for i, m := range roster {
		memberIDs[i] = m.ID.String()
	}

	now := time.Now().UTC()

	switch status {
	case StatusUndecided:
		if err := s.repo.DeleteBySchedule(ctx, scheduleID, memberIDs); err != nil {
			s.logger.Error("bulk reset failed",
				zap.String("request_id", rid),
				zap.String("schedule_id", scheduleID),
				zap.Error(err),
			)
			return BulkResult{}, apperror.Wrap(err, apperror.CodeInternalError, "bulk reset failed, re-fetch attendance to see the resulting state", http.StatusInternalServerError)
		}

	case StatusPresent, StatusAbsent:
		rows := make([]Attendance, len(roster))
		for i, m := range roster {
			rows[i] = Attendance{
				ID:         uuid.New(),
				ScheduleID: sched.ID,
				MemberID:   m.ID,
				Status:     status,
				CheckedAt:  now,
			}
		}
		if err := s.repo.UpsertMany(ctx, rows); err != nil {
			s.logger.Error("bulk upsert failed",
				zap.String("request_id", rid),
				zap.String("schedule_id", scheduleID),
				zap.String("status", status),
				zap.Error(err),
			)
			return BulkResult{}, apperror.Wrap(err, apperror.CodeInternalError, "bulk update failed, re-fetch attendance to see the resulting state", http.StatusInternalServerError)
		}

		// reset carries no attendance fact, so only concrete statuses emit
		if err := s.emitRecorded(ctx, nil, rid, groupID, scheduleID, memberIDs, status, now); err != nil {
			s.logger.Error("bulk outbox write failed", zap.String("request_id", rid), zap.Error(err))
		}

	default:
		return BulkResult{}, attendanceerrors.ErrInvalidBulkStatus
	}

	s.logger.Info("bulk attendance applied",
		zap.String("request_id", rid),
		zap.String("schedule_id", scheduleID),
		zap.String("status", status),
		zap.Int("members", len(memberIDs)),
	)
	return BulkResult{
		ScheduleID: scheduleID,
		Status:     status,
		Members:    len(memberIDs),
	}, nil
}

// SubmitExcuse attaches a pending excuse to an existing record. Records are
// only created by check-in or administrative assignment, so an undecided
// member has nothing to excuse yet.
func (s *service) SubmitExcuse(ctx context.Context, groupID, scheduleID, memberID string, req SubmitExcuseRequest) (AttendanceResponse, error) {
	if !s.guard.acquire(memberID) {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyInProgress
	}
	defer s.guard.release(memberID)

	if _, err := s.findSchedule(ctx, groupID, scheduleID); err != nil {
		return AttendanceResponse{}, err
	}

	state, err := s.repo.State(ctx, scheduleID, memberID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !state.Decided {
		return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
	}

	pending := ExcusePending
	row := state.Record
	row.ExcuseReason = &req.Reason
	row.ExcuseStatus = &pending

	if err := s.repo.Update(ctx, &row); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("excuse submitted",
		zap.String("schedule_id", scheduleID),
		zap.String("member_id", memberID),
	)
	return mapToResponse(row), nil
}

func (s *service) ReviewExcuse(ctx context.Context, groupID, scheduleID string, req ReviewExcuseRequest) (AttendanceResponse, error) {
	if _, err := s.findSchedule(ctx, groupID, scheduleID); err != nil {
		return AttendanceResponse{}, err
	}

	state, err := s.repo.State(ctx, scheduleID, req.MemberID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !state.Decided {
		return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
	}
	if state.Record.ExcuseStatus == nil {
		return AttendanceResponse{}, attendanceerrors.ErrExcuseNotFound
	}

	verdict := ExcuseRejected
	if req.Approve {
		verdict = ExcuseApproved
	}
	row := state.Record
	row.ExcuseStatus = &verdict

	if err := s.repo.Update(ctx, &row); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("excuse reviewed",
		zap.String("schedule_id", scheduleID),
		zap.String("member_id", req.MemberID),
		zap.String("verdict", verdict),
	)
	return mapToResponse(row), nil
}

func (s *service) GetBySchedule(ctx context.Context, groupID, scheduleID string) ([]AttendanceResponse, error) {
	if _, err := s.findSchedule(ctx, groupID, scheduleID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAllBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// GetMemberStats aggregates per-member counts over schedules that track
// attendance in the given range. A member with no row for a schedule counts
// as absent; early leave counts against the rate, matching the dashboard's
// definition.
func (s *service) GetMemberStats(ctx context.Context, groupID string, from, to *string) ([]MemberStat, error) {
	key := statsCacheKey(groupID, from, to)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var stats []MemberStat
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.computeMemberStats(ctx, groupID, from, to)
	})
	if err != nil {
		return nil, err
	}
	stats := v.([]MemberStat)

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, key, payload, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *service) computeMemberStats(ctx context.Context, groupID string, from, to *string) ([]MemberStat, error) {
	roster, err := s.members.FindAllByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	scheduleIDs, err := s.schedules.FindIDsByGroupAndRange(ctx, groupID, from, to)
	if err != nil {
		return nil, err
	}
	total := len(scheduleIDs)

	statusRows, err := s.repo.FindStatusesInSchedules(ctx, scheduleIDs)
	if err != nil {
		return nil, err
	}

	type counts struct{ present, late, earlyLeave int }
	byMember := make(map[string]counts, len(roster))
	for _, row := range statusRows {
		c := byMember[row.MemberID]
		switch row.Status {
		case StatusPresent:
			c.present++
		case StatusLate:
			c.late++
		case StatusEarlyLeave:
			c.earlyLeave++
		}
		byMember[row.MemberID] = c
	}

	stats := make([]MemberStat, len(roster))
	for i, m := range roster {
		c := byMember[m.ID.String()]
		absent := total - c.present - c.late - c.earlyLeave
		if absent < 0 {
			absent = 0
		}
		rate := 0.0
		if total > 0 {
			rate = float64(c.present+c.late) / float64(total) * 100
		}
		stats[i] = MemberStat{
			MemberID:    m.ID.String(),
			DisplayName: m.DisplayName,
			Present:     c.present,
			Late:        c.late,
			EarlyLeave:  c.earlyLeave,
			Absent:      absent,
			Total:       total,
			Rate:        rate,
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Rate != stats[j].Rate {
			return stats[i].Rate > stats[j].Rate
		}
		return stats[i].DisplayName < stats[j].DisplayName
	})
	return stats, nil
}

func statsCacheKey(groupID string, from, to *string) string {
	f, t := "-", "-"
	if from != nil {
		f = *from
	}
	if to != nil {
		t = *to
	}
	return fmt.Sprintf("attendance:stats:%s:%s:%s", groupID, f, t)
}

// emitRecorded writes an attendance event to the outbox. With a tx it joins
// the surrounding record write; without one (bulk) it is a best-effort
// follow-up write.
func (s *service) emitRecorded(
	ctx context.Context,
	tx *sql.Tx,
	rid, groupID, scheduleID string,
	memberIDs []string,
	status string,
	occurredAt time.Time,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AttendanceRecordedEvent{
		EventType:  "attendance_recorded",
		RequestID:  rid,
		GroupID:    groupID,
		ScheduleID: scheduleID,
		MemberIDs:  memberIDs,
		Status:     status,
		OccurredAt: occurredAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox
	if tx != nil {
		outboxRepo = s.outbox.WithTx(tx)
	}
	return outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   scheduleID,
		EventType:     event.EventType,
		Topic:         events.AttendanceRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapLocationError(err error) error {
	switch {
	case errors.Is(err, location.ErrPermissionDenied):
		return attendanceerrors.ErrLocationPermissionDenied
	case errors.Is(err, location.ErrTimeout):
		return attendanceerrors.ErrLocationTimeout
	default:
		return attendanceerrors.ErrLocationUnavailable
	}
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               a.ID.String(),
		ScheduleID:       a.ScheduleID.String(),
		MemberID:         a.MemberID.String(),
		Status:           a.Status,
		CheckedAt:        a.CheckedAt.Format(time.RFC3339),
		CheckInLatitude:  a.CheckInLatitude,
		CheckInLongitude: a.CheckInLongitude,
		ExcuseReason:     a.ExcuseReason,
		ExcuseStatus:     a.ExcuseStatus,
	}
	if a.CheckedOutAt != nil {
		v := a.CheckedOutAt.Format(time.RFC3339)
		resp.CheckedOutAt = &v
		resp.CheckOutLatitude = a.CheckOutLatitude
		resp.CheckOutLongitude = a.CheckOutLongitude
	}
	return resp
}
