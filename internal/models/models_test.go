package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordRoundTrip(t *testing.T) {
	u := &User{Username: "alice"}
	require.NoError(t, u.SetPassword("pw1"))

	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.True(t, u.CheckPassword("pw1"))
	assert.False(t, u.CheckPassword("pw2"))
	assert.False(t, (&User{}).CheckPassword(""))
}

func TestUser_PasswordLongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("a", 100)

	u := &User{Username: "alice"}
	require.NoError(t, u.SetPassword(long))

	assert.True(t, u.CheckPassword(long))
	// Differs only past byte 72, which raw bcrypt would ignore.
	assert.False(t, u.CheckPassword(strings.Repeat("a", 99)+"b"))
}

func TestUser_MarshalJSON(t *testing.T) {
	u := User{ID: 1, Username: "alice", Email: "a@x.com", PasswordHash: "secret-hash"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, string(raw), "secret-hash")
	assert.Equal(t, []any{}, body["skills_offered"])
	assert.Equal(t, []any{}, body["skills_seeking"])
	for _, key := range []string{"id", "username", "email", "location", "bio"} {
		assert.Contains(t, body, key)
	}
}

func TestUserSkillKind(t *testing.T) {
	assert.Equal(t, "SkillsOffered", UserSkillOffered.Association())
	assert.Equal(t, "user_skills_seeking", UserSkillSeeking.JoinTable())
	assert.True(t, UserSkillSeeking.Valid())
	assert.False(t, UserSkillKind("teaching").Valid())
}

func TestParseResponseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    SwapStatus
		wantErr bool
	}{
		{"accepted", SwapStatusAccepted, false},
		{"rejected", SwapStatusRejected, false},
		{"pending", "", true},
		{"completed", "", true},
		{"cancelled", "", true},
		{"Accepted", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseResponseStatus(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status())
		})
	}
}

func TestSwap_Respond(t *testing.T) {
	s := &Swap{Status: SwapStatusPending}
	assert.True(t, s.IsPending())

	prev := s.Respond(ResponseAccepted)
	assert.Equal(t, SwapStatusPending, prev)
	assert.Equal(t, SwapStatusAccepted, s.Status)

	prev = s.Respond(ResponseRejected)
	assert.Equal(t, SwapStatusAccepted, prev)
	assert.Equal(t, SwapStatusRejected, s.Status)
}

func TestSwapStatus_Valid(t *testing.T) {
	for _, s := range []SwapStatus{"pending", "accepted", "rejected", "completed", "cancelled"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, SwapStatus("archived").Valid())
}

func TestSwap_JSONShape(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	s := Swap{
		ID:             3,
		ProposerID:     1,
		Status:         SwapStatusPending,
		Timestamp:      ts,
		Proposer:       User{ID: 1, Username: "alice"},
		Receiver:       User{ID: 2, Username: "bob"},
		OfferedSkill:   Skill{ID: 1, Name: "Guitar", Category: "Music"},
		RequestedSkill: Skill{ID: 2, Name: "Spanish", Category: "Language"},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "2024-03-01T12:30:00Z", body["timestamp"])
	assert.NotContains(t, body, "proposer_id")
	proposer := body["proposer"].(map[string]any)
	assert.Equal(t, []any{}, proposer["skills_offered"])
	assert.Equal(t, "Spanish", body["requested_skill"].(map[string]any)["name"])
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("Invalid user ID"), fiber.StatusNotFound},
		{NewValidationError("missing"), fiber.StatusBadRequest},
		{NewConflictError("dup"), fiber.StatusConflict},
		{NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewConflictError("dup")), fiber.StatusConflict},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForError(tt.err), tt.err.Error())
	}
}

func TestNewRecordNotFoundError(t *testing.T) {
	err := NewRecordNotFoundError("User", 7)
	assert.Equal(t, "User with ID 7 not found", err.Error())
	assert.Equal(t, CodeNotFound, ErrorCode(err))
}
