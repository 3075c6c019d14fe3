package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes, so longer secrets are rejected outright.
	MaxPasswordBytes = 72
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r RegisterRequest) Validate() error {
	if err := ValidateUsername(r.Username); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}

type CreateNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r CreateNoteRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(r.Title) > MaxNoteTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxNoteTitleLength)
	}
	if utf8.RuneCountInString(r.Body) > MaxNoteBodyLength {
		return fmt.Errorf("%w: body exceeds %d characters", ErrInvalidInput, MaxNoteBodyLength)
	}
	return nil
}

// UpdateNoteRequest is a partial update; nil fields are left untouched.
type UpdateNoteRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (r UpdateNoteRequest) Validate() error {
	if r.Title == nil && r.Body == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		if utf8.RuneCountInString(*r.Title) > MaxNoteTitleLength {
			return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxNoteTitleLength)
		}
	}
	if r.Body != nil && utf8.RuneCountInString(*r.Body) > MaxNoteBodyLength {
		return fmt.Errorf("%w: body exceeds %d characters", ErrInvalidInput, MaxNoteBodyLength)
	}
	return nil
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, MinUsernameLength, MaxUsernameLength)
	}
	for _, r := range username {
		if r <= ' ' || r == 0x7f {
			return fmt.Errorf("%w: username cannot contain whitespace or control characters", ErrInvalidInput)
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}
	return nil
}
