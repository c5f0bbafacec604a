package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	status, raw := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw1",
		"location": "Lisbon",
	})
	require.Equal(t, http.StatusCreated, status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "Lisbon", body["location"])
	assert.Equal(t, "", body["bio"])
	assert.Equal(t, []any{}, body["skills_offered"])
	assert.Equal(t, []any{}, body["skills_seeking"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, string(raw), "pw1")

	var stored models.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, stored.CheckPassword("pw1"))
}

func TestRegister_LocationIsOptional(t *testing.T) {
	env := newTestEnv(t)

	u := env.register(t, "alice", "a@x.com", "pw1")
	assert.Equal(t, "", u.Location)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.com", "pw1")

	status, raw := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
		"email":    "other@x.com",
		"password": "pw2",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already exists", errorMessage(t, raw))

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.com", "pw1")

	status, raw := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice2",
		"email":    "a@x.com",
		"password": "pw2",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email address already in use", errorMessage(t, raw))
}

func TestRegister_UsernameCheckedBeforeEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.com", "pw1")

	_, raw := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw1",
	})
	assert.Equal(t, "Username already exists", errorMessage(t, raw))
}

func TestRegister_MissingData(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
	}{
		{"no body", nil},
		{"malformed json", `{"username":`},
		{"missing username", map[string]string{"email": "a@x.com", "password": "pw"}},
		{"missing email", map[string]string{"username": "a", "password": "pw"}},
		{"missing password", map[string]string{"username": "a", "email": "a@x.com"}},
		{"null password", `{"username":"a","email":"a@x.com","password":null}`},
		{"wrong type", `{"username":1,"email":"a@x.com","password":"pw"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := env.do(t, http.MethodPost, "/api/users/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Missing data for registration", errorMessage(t, raw))
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegister_EmptyValuesArePresent(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "",
		"email":    "",
		"password": "",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestRegister_LongPassword(t *testing.T) {
	env := newTestEnv(t)
	long := strings.Repeat("p", 73)

	status, _ := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": long,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.do(t, http.MethodPost, "/api/users/login", map[string]string{
		"username": "alice",
		"password": long,
	})
	assert.Equal(t, http.StatusOK, status)

	status, raw := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": "alice",
		"email":    "other@x.com",
		"password": strings.Repeat("q", 80),
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username already exists", errorMessage(t, raw))
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "a@x.com", "pw1")

	var got userJSON
	status := env.doJSON(t, http.MethodGet, "/api/users/1", nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, alice, got)

	status, raw := env.do(t, http.MethodGet, "/api/users/99", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User with ID 99 not found", errorMessage(t, raw))

	status, raw = env.do(t, http.MethodGet, "/api/users/abc", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Invalid ID", errorMessage(t, raw))
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)

	var empty []userJSON
	status := env.doJSON(t, http.MethodGet, "/api/users", nil, &empty)
	require.Equal(t, http.StatusOK, status)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	env.register(t, "alice", "a@x.com", "pw1")
	env.register(t, "bob", "b@x.com", "pw2")

	var users []userJSON
	status = env.doJSON(t, http.MethodGet, "/api/users", nil, &users)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.NotNil(t, users[0].SkillsOffered)
}

func TestAddSkill_OfferedAndSeeking(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "a@x.com", "pw1")
	guitar := env.createSkill(t, "Guitar", "Music")
	spanish := env.createSkill(t, "Spanish", "Language")

	var u userJSON
	status := env.doJSON(t, http.MethodPost, "/api/users/1/skills/offered", map[string]uint{"skill_id": guitar.ID}, &u)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []skillJSON{guitar}, u.SkillsOffered)
	assert.Empty(t, u.SkillsSeeking)

	// Adding the same skill twice is a no-op.
	status = env.doJSON(t, http.MethodPost, "/api/users/1/skills/offered", map[string]uint{"skill_id": guitar.ID}, &u)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, u.SkillsOffered, 1)

	status = env.doJSON(t, http.MethodPost, "/api/users/1/skills/seeking", map[string]uint{"skill_id": spanish.ID}, &u)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []skillJSON{spanish}, u.SkillsSeeking)

	var got userJSON
	env.doJSON(t, http.MethodGet, "/api/users/1", nil, &got)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, []skillJSON{guitar}, got.SkillsOffered)
	assert.Equal(t, []skillJSON{spanish}, got.SkillsSeeking)
}

func TestAddSkill_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.com", "pw1")
	guitar := env.createSkill(t, "Guitar", "Music")

	status, raw := env.do(t, http.MethodPost, "/api/users/9/skills/offered", map[string]uint{"skill_id": guitar.ID})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User with ID 9 not found", errorMessage(t, raw))

	status, raw = env.do(t, http.MethodPost, "/api/users/1/skills/offered", map[string]uint{"skill_id": 42})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Skill with ID 42 not found", errorMessage(t, raw))

	status, raw = env.do(t, http.MethodPost, "/api/users/1/skills/seeking", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing skill_id", errorMessage(t, raw))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "a@x.com", "pw1")

	var result struct {
		Token string   `json:"token"`
		User  userJSON `json:"user"`
	}
	status := env.doJSON(t, http.MethodPost, "/api/users/login", map[string]string{
		"username": "alice",
		"password": "pw1",
	}, &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, alice, result.User)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(env.srv.config.SecretKey), nil
	}, jwt.WithIssuer(service.TokenIssuer), jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
}

func TestLogin_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.com", "pw1")

	for _, creds := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": "pw1"},
	} {
		status, raw := env.do(t, http.MethodPost, "/api/users/login", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid username or password", errorMessage(t, raw))
	}

	status, _ := env.do(t, http.MethodPost, "/api/users/login", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, status)
}
