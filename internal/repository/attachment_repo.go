package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"projecthub/internal/model"
)

type AttachmentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAttachmentRepository(db *pgxpool.Pool, logger *zap.Logger) *AttachmentRepository {
	return &AttachmentRepository{db: db, logger: logger}
}

func (r *AttachmentRepository) Insert(ctx context.Context, a *model.Attachment) error {
	query := `
        INSERT INTO attachments (task_id, uploader_id, file_name, storage_key, size)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, uploaded_at
    `
	err := r.db.QueryRow(ctx, query,
		a.TaskID, a.UploaderID, a.FileName, a.StorageKey, a.Size,
	).Scan(&a.ID, &a.UploadedAt)
	if err != nil {
		r.logger.Error("Failed to insert attachment",
			zap.Int64("task_id", a.TaskID),
			zap.String("file_name", a.FileName),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Attachment stored",
		zap.Int64("attachment_id", a.ID),
		zap.Int64("task_id", a.TaskID),
		zap.Int64("size", a.Size),
	)
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*model.Attachment, error) {
	query := `
        SELECT a.id, a.task_id, t.project_id, a.uploader_id, a.file_name, a.storage_key, a.size, a.uploaded_at
        FROM attachments a
        JOIN tasks t ON t.id = a.task_id
        WHERE a.id = $1
    `
	var a model.Attachment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.TaskID, &a.ProjectID, &a.UploaderID, &a.FileName, &a.StorageKey, &a.Size, &a.UploadedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete attachment", zap.Int64("attachment_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID int64) ([]model.Attachment, error) {
	query := `
        SELECT a.id, a.task_id, t.project_id, a.uploader_id, a.file_name, a.storage_key, a.size, a.uploaded_at
        FROM attachments a
        JOIN tasks t ON t.id = a.task_id
        WHERE a.task_id = $1
        ORDER BY a.uploaded_at
    `
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		r.logger.Error("Failed to query attachments", zap.Int64("task_id", taskID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	attachments := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.ProjectID, &a.UploaderID, &a.FileName, &a.StorageKey, &a.Size, &a.UploadedAt,
		); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
