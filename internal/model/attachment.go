package model

import "time"

type Attachment struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"task_id"`
	ProjectID  int64     `json:"project_id"`
	UploaderID int64     `json:"uploader_id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"-"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (a *Attachment) AuthorizationScope() int64 { return a.ProjectID }
