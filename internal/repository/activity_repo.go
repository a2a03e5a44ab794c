package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

// ActivityRepository writes and reads the append-only audit trail. Rows are
// never updated or deleted here; referents going away only null out the
// corresponding foreign keys.
type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, logger: logger}
}

// InsertLog implements event.ActivityWriter.
func (r *ActivityRepository) InsertLog(ctx context.Context, entry *model.ActivityLog) error {
	query := `
        INSERT INTO activity_logs (project_id, task_id, user_id, action, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		entry.ProjectID, entry.TaskID, entry.UserID, entry.Action, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		r.logger.Error("Failed to insert activity log",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// TaskLogExists implements event.LogReader.
func (r *ActivityRepository) TaskLogExists(ctx context.Context, taskID int64, fragment string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM activity_logs
            WHERE task_id = $1 AND action LIKE '%' || $2 || '%'
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, taskID, fragment).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListForUser returns log entries for every project the user owns or belongs
// to, newest first. Entries whose project reference was nulled by a project
// deletion are no longer attributable to a scope and are not listed.
func (r *ActivityRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
        SELECT DISTINCT al.id, al.project_id, al.task_id, al.user_id, al.action, al.created_at
        FROM activity_logs al
        JOIN projects p ON p.id = al.project_id
        LEFT JOIN team_members tm ON tm.project_id = p.id
        WHERE p.owner_id = $1 OR tm.user_id = $1
        ORDER BY al.created_at DESC, al.id DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("Failed to query activity logs", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	logs := []model.ActivityLog{}
	for rows.Next() {
		var l model.ActivityLog
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.TaskID, &l.UserID, &l.Action, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
