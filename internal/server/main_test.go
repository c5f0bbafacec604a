package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	srv *Server
}

// newTestEnv builds the full application over a fresh in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cache.SetClient(nil)

	cfg := &config.Config{
		Env:             "test",
		Port:            "0",
		SecretKey:       "test-secret-key-that-is-long-enough-for-hs256",
		TokenTTLMinutes: 15,
		DBDriver:        database.DriverSQLite,
		SQLitePath:      ":memory:",
		DBSchemaMode:    database.SchemaModeAuto,
		AllowedOrigins:  "*",
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, cfg))
	t.Cleanup(func() { _ = database.Close(db) })

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	return &testEnv{app: srv.NewApp(), db: db, srv: srv}
}

// do sends a request and returns the status and raw body. A nil body sends none.
func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// doJSON is do plus decoding of the response body into dest.
func (e *testEnv) doJSON(t *testing.T, method, path string, body, dest any) int {
	t.Helper()
	status, raw := e.do(t, method, path, body)
	if dest != nil {
		require.NoError(t, json.Unmarshal(raw, dest), string(raw))
	}
	return status
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Error
}

type userJSON struct {
	ID            uint        `json:"id"`
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	Location      string      `json:"location"`
	Bio           string      `json:"bio"`
	SkillsOffered []skillJSON `json:"skills_offered"`
	SkillsSeeking []skillJSON `json:"skills_seeking"`
}

type skillJSON struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type swapJSON struct {
	ID             uint      `json:"id"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	Timestamp      string    `json:"timestamp"`
	Proposer       userJSON  `json:"proposer"`
	Receiver       userJSON  `json:"receiver"`
	OfferedSkill   skillJSON `json:"offered_skill"`
	RequestedSkill skillJSON `json:"requested_skill"`
}

func (e *testEnv) register(t *testing.T, username, email, password string) userJSON {
	t.Helper()
	var u userJSON
	status := e.doJSON(t, http.MethodPost, "/api/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &u)
	require.Equal(t, http.StatusCreated, status)
	return u
}

func (e *testEnv) createSkill(t *testing.T, name, category string) skillJSON {
	t.Helper()
	var s skillJSON
	status := e.doJSON(t, http.MethodPost, "/api/skills", map[string]string{
		"name":     name,
		"category": category,
	}, &s)
	require.Equal(t, http.StatusCreated, status)
	return s
}

func (e *testEnv) propose(t *testing.T, proposer, receiver, offered, requested uint) swapJSON {
	t.Helper()
	var sw swapJSON
	status := e.doJSON(t, http.MethodPost, "/api/swaps/propose", map[string]any{
		"proposer_id":        proposer,
		"receiver_id":        receiver,
		"offered_skill_id":   offered,
		"requested_skill_id": requested,
	}, &sw)
	require.Equal(t, http.StatusCreated, status)
	return sw
}

func decodeBody(resp *http.Response, dest any) error {
	return json.NewDecoder(resp.Body).Decode(dest)
}
