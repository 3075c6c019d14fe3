package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrSelfModification  = errors.New("cannot change own account")

	// Note related errors
	ErrNoteNotFound   = errors.New("note not found")
	ErrNoteNotDeleted = errors.New("note is not deleted")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
