package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"projecthub/internal/model"
	"projecthub/internal/repository"
	"projecthub/internal/storage"
)

type AttachmentService struct {
	attachments *repository.AttachmentRepository
	tasks       *repository.TaskRepository
	store       *storage.LocalStore
	authz       *Authz
	logger      *zap.Logger
}

func NewAttachmentService(
	attachments *repository.AttachmentRepository,
	tasks *repository.TaskRepository,
	store *storage.LocalStore,
	authz *Authz,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		tasks:       tasks,
		store:       store,
		authz:       authz,
		logger:      logger,
	}
}

// Upload stores the file content first and records the metadata row second.
// If the insert fails the stored file is removed again.
func (s *AttachmentService) Upload(ctx context.Context, actorID, taskID int64, fileName string, content io.Reader) (*model.Attachment, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return nil, err
	}

	key, size, err := s.store.Save(content, fileName)
	if err != nil {
		return nil, err
	}

	a := &model.Attachment{
		TaskID:     taskID,
		ProjectID:  t.ProjectID,
		UploaderID: actorID,
		FileName:   fileName,
		StorageKey: key,
		Size:       size,
	}
	if err := s.attachments.Insert(ctx, a); err != nil {
		if rmErr := s.store.Remove(key); rmErr != nil {
			s.logger.Warn("Failed to remove orphaned upload",
				zap.String("storage_key", key),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}
	return a, nil
}

func (s *AttachmentService) ListByTask(ctx context.Context, actorID, taskID int64) ([]model.Attachment, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, t); err != nil {
		return nil, err
	}
	return s.attachments.ListByTask(ctx, taskID)
}

// Download returns the attachment metadata and an open reader on its content.
// The caller closes the reader.
func (s *AttachmentService) Download(ctx context.Context, actorID, attachmentID int64) (*model.Attachment, io.ReadCloser, error) {
	a, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authz.CheckAccess(ctx, actorID, a); err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(a.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return a, rc, nil
}

// Delete allows the uploader and the project owner.
func (s *AttachmentService) Delete(ctx context.Context, actorID, attachmentID int64) error {
	a, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return err
	}
	if a.UploaderID != actorID {
		if err := s.authz.CheckOwner(ctx, actorID, a); err != nil {
			return err
		}
	}
	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return err
	}
	if err := s.store.Remove(a.StorageKey); err != nil {
		s.logger.Warn("Attachment row deleted but file removal failed",
			zap.String("storage_key", a.StorageKey),
			zap.Error(err),
		)
	}
	return nil
}
