package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" admin ")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = ParseRole("USER")
	require.True(t, ok)
	assert.Equal(t, RoleUser, role)

	_, ok = ParseRole("editor")
	assert.False(t, ok)
}

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{name: "valid", req: RegisterRequest{Username: "alice", Password: "pw123456"}},
		{name: "short username", req: RegisterRequest{Username: "al", Password: "pw123456"}, wantErr: true},
		{name: "space in username", req: RegisterRequest{Username: "al ice", Password: "pw123456"}, wantErr: true},
		{name: "short password", req: RegisterRequest{Username: "alice", Password: "short"}, wantErr: true},
		{name: "password over 72 bytes", req: RegisterRequest{Username: "alice", Password: strings.Repeat("x", 73)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNoteRequestsValidate(t *testing.T) {
	assert.NoError(t, CreateNoteRequest{Title: "Groceries", Body: "milk"}.Validate())
	assert.ErrorIs(t, CreateNoteRequest{Title: "  "}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, CreateNoteRequest{Title: strings.Repeat("t", MaxNoteTitleLength+1)}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, CreateNoteRequest{Title: "ok", Body: strings.Repeat("b", MaxNoteBodyLength+1)}.Validate(), ErrInvalidInput)

	assert.ErrorIs(t, UpdateNoteRequest{}.Validate(), ErrInvalidInput)

	body := "new body"
	assert.NoError(t, UpdateNoteRequest{Body: &body}.Validate())

	empty := ""
	assert.ErrorIs(t, UpdateNoteRequest{Title: &empty}.Validate(), ErrInvalidInput)
}
