package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"crewdeck/internal/events"
	"crewdeck/internal/streak"
)

// ConsumeAttendanceRecorded folds attendance events into streak counters.
// Streak writes are idempotent per save but not per event; redelivery after a
// failed commit can double-count, which is acceptable for this projection.
func ConsumeAttendanceRecorded(
	ctx context.Context,
	reader *kafkago.Reader,
	streakService streak.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_recorded")
	log.Info("attendance recorded consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance recorded consumer stopped")
				return
			}
			log.Error("fetch attendance recorded message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance_recorded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		failed := false
		for _, memberID := range event.MemberIDs {
			if err := streakService.Apply(ctx, event.GroupID, memberID, event.Status); err != nil {
				log.Error("apply streak failed",
					zap.String("member_id", memberID),
					zap.String("schedule_id", event.ScheduleID),
					zap.Error(err),
				)
				failed = true
			}
		}
		if failed {
			// leave the message uncommitted so it is retried
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance recorded message failed", zap.Error(err))
			continue
		}

		log.Info("streaks updated from attendance event",
			zap.String("schedule_id", event.ScheduleID),
			zap.String("status", event.Status),
			zap.Int("members", len(event.MemberIDs)),
		)
	}
}
