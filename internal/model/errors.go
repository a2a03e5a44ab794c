package model

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("operation not permitted")
	ErrDuplicate = errors.New("record already exists")
	ErrInvalid   = errors.New("invalid value")
)
