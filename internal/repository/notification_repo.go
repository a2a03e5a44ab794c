package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
	"projecthub/pkg/outbox"
)

type NotificationRepository struct {
	db         *pgxpool.Pool
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:         db,
		outboxRepo: outbox.NewRepository(db),
		logger:     logger,
	}
}

// CreateNotification implements event.NotificationWriter. The notification
// row and its notification.created outbox event commit atomically, so
// external delivery sees the event at least once and never for a rolled-back
// notification.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO notifications (user_id, message, created_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	if err := tx.QueryRow(ctx, query, n.UserID, n.Message, n.CreatedAt).Scan(&n.ID); err != nil {
		r.logger.Error("Failed to insert notification",
			zap.Int64("user_id", n.UserID),
			zap.Error(err),
		)
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"message":         n.Message,
	})
	if err != nil {
		return err
	}
	ev := &outbox.Event{
		AggregateType: "notification",
		AggregateID:   &n.ID,
		RoutingKey:    "notification.created",
		Payload:       payload,
	}
	if err := r.outboxRepo.InsertEvent(ctx, tx, ev); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Info("Notification created",
		zap.Int64("notification_id", n.ID),
		zap.Int64("user_id", n.UserID),
	)
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	query := `
        SELECT id, user_id, message, is_read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query notifications", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips the read flag for a notification owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Int64("notification_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
