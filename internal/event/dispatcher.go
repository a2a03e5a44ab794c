package event

import (
	"context"

	"go.uber.org/zap"

	"projecthub/internal/model"
	"projecthub/pkg/metrics"
)

// ActivityWriter persists derived activity log entries.
type ActivityWriter interface {
	InsertLog(ctx context.Context, entry *model.ActivityLog) error
}

// NotificationWriter persists derived notifications.
type NotificationWriter interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// Dispatcher fans committed mutations out to the activity recorder and the
// notifier, synchronously and in-process. Everything here is best-effort:
// no failure propagates back to the write path that emitted the event.
type Dispatcher struct {
	recorder      *Recorder
	notifier      *Notifier
	logs          ActivityWriter
	notifications NotificationWriter
	logger        *zap.Logger
}

func NewDispatcher(
	recorder *Recorder,
	notifier *Notifier,
	logs ActivityWriter,
	notifications NotificationWriter,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		recorder:      recorder,
		notifier:      notifier,
		logs:          logs,
		notifications: notifications,
		logger:        logger,
	}
}

// Dispatch processes events in the order given. Callers invoke it only after
// the primary mutation committed, so derived records can never exist for a
// write that failed.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	for _, ev := range events {
		d.dispatch(ctx, ev)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev Event) {
	metrics.EventsDispatched.WithLabelValues(string(ev.Kind)).Inc()

	d.record(ctx, ev)

	if ev.Kind == KindTaskAssigned || ev.Kind == KindTaskUnassigned {
		d.notify(ctx, ev)
	}
}

func (d *Dispatcher) record(ctx context.Context, ev Event) {
	entry, err := d.recorder.Record(ctx, ev)
	if err != nil {
		metrics.ActivityLogsSkipped.WithLabelValues(string(ev.Kind), "error").Inc()
		d.logger.Warn("activity record skipped",
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
		return
	}
	if entry == nil {
		metrics.ActivityLogsSkipped.WithLabelValues(string(ev.Kind), "no_record").Inc()
		return
	}

	if err := d.logs.InsertLog(ctx, entry); err != nil {
		metrics.ActivityLogsSkipped.WithLabelValues(string(ev.Kind), "write_failed").Inc()
		d.logger.Warn("activity log write failed",
			zap.String("kind", string(ev.Kind)),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return
	}
	metrics.ActivityLogsRecorded.WithLabelValues(string(ev.Kind)).Inc()
}

func (d *Dispatcher) notify(ctx context.Context, ev Event) {
	if ev.Task == nil || ev.Project == nil {
		d.logger.Warn("assignment notification skipped: incomplete event",
			zap.String("kind", string(ev.Kind)),
		)
		return
	}

	n := d.notifier.AssignmentChange(ev.Task, ev.Project, ev.TargetUserID, ev.Kind == KindTaskAssigned, ev.At)
	if err := d.notifications.CreateNotification(ctx, n); err != nil {
		d.logger.Warn("notification write failed",
			zap.String("kind", string(ev.Kind)),
			zap.Int64("user_id", ev.TargetUserID),
			zap.Error(err),
		)
		return
	}
	metrics.NotificationsCreated.Inc()
}
