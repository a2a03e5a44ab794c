package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskColumns = `id, project_id, title, description, status, priority, due_date, created_at, updated_at`

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (project_id, title, description, status, priority, due_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Int64("project_id", t.ProjectID),
			zap.String("title", t.Title),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Task created", zap.Int64("task_id", t.ID), zap.Int64("project_id", t.ProjectID))
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	assignees, err := r.Assignees(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.AssigneeIDs = assignees
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update task", zap.Int64("task_id", t.ID), zap.Error(err))
	}
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	r.logger.Info("Task deleted", zap.Int64("task_id", id))
	return nil
}

// ListForUser returns tasks in every project the user owns or belongs to.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]model.Task, error) {
	query := `
        SELECT DISTINCT t.id, t.project_id, t.title, t.description, t.status, t.priority,
               t.due_date, t.created_at, t.updated_at
        FROM tasks t
        JOIN projects p ON p.id = t.project_id
        LEFT JOIN team_members tm ON tm.project_id = p.id
        WHERE p.owner_id = $1 OR tm.user_id = $1
        ORDER BY t.created_at DESC
    `
	return r.queryTasks(ctx, query, userID)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	return r.queryTasks(ctx, query, projectID)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, arg any) ([]model.Task, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachAssignees(ctx, tasks)
}

func (r *TaskRepository) attachAssignees(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	for i := range tasks {
		assignees, err := r.Assignees(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].AssigneeIDs = assignees
	}
	return tasks, nil
}

// Assign adds the user to the task's assignee set. Reports false when the
// pair already existed.
func (r *TaskRepository) Assign(ctx context.Context, taskID, userID int64) (bool, error) {
	query := `
        INSERT INTO task_assignees (task_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, taskID, userID)
	if err != nil {
		r.logger.Error("Failed to assign task",
			zap.Int64("task_id", taskID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Unassign removes the user from the task's assignee set. Reports false when
// there was nothing to remove.
func (r *TaskRepository) Unassign(ctx context.Context, taskID, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM task_assignees WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		r.logger.Error("Failed to unassign task",
			zap.Int64("task_id", taskID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Assignees returns assignee ids in assignment order.
func (r *TaskRepository) Assignees(ctx context.Context, taskID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY assigned_at, user_id`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FirstAssignee implements event.AssigneeReader.
func (r *TaskRepository) FirstAssignee(ctx context.Context, taskID int64) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY assigned_at, user_id LIMIT 1`,
		taskID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ListOverdue returns tasks whose due date has passed and whose status can
// still transition to Missed.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE due_date IS NOT NULL
        AND due_date < $1
        AND status IN ('Pending', 'In Progress')
        ORDER BY due_date
    `
	return r.queryTasks(ctx, query, now)
}

// MarkMissed transitions a single task to Missed with a status guard, so a
// concurrent user edit that already moved the task wins over the sweep.
func (r *TaskRepository) MarkMissed(ctx context.Context, taskID int64) (bool, error) {
	query := `
        UPDATE tasks
        SET status = 'Missed', updated_at = NOW()
        WHERE id = $1 AND status IN ('Pending', 'In Progress')
    `
	tag, err := r.db.Exec(ctx, query, taskID)
	if err != nil {
		r.logger.Error("Failed to mark task missed", zap.Int64("task_id", taskID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountAssignedByStatus backs the dashboard counters.
func (r *TaskRepository) CountAssignedByStatus(ctx context.Context, userID int64, statuses []string) (int, error) {
	query := `
        SELECT COUNT(DISTINCT t.id)
        FROM tasks t
        JOIN task_assignees ta ON ta.task_id = t.id
        WHERE ta.user_id = $1
        AND (cardinality($2::text[]) = 0 OR t.status = ANY($2))
    `
	var n int
	if err := r.db.QueryRow(ctx, query, userID, statuses).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
