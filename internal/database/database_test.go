package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:                      "test",
		DBDriver:                 DriverSQLite,
		SQLitePath:               ":memory:",
		DBSchemaMode:             SchemaModeHybrid,
		DBMaxIdleConns:           1,
		DBConnMaxLifetimeMinutes: 5,
	}
}

func TestConnect_SQLiteApplySchema(t *testing.T) {
	cfg := memoryConfig()
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, ApplySchema(context.Background(), db, cfg))
	require.NoError(t, Ping(context.Background(), db))

	for _, table := range []string{"users", "skills", "swaps", "user_skills_offered", "user_skills_seeking"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSwapTimestamp_IsImmutable(t *testing.T) {
	cfg := memoryConfig()
	db, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, ApplySchema(context.Background(), db, cfg))

	alice := models.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	bob := models.User{Username: "bob", Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)
	guitar := models.Skill{Name: "Guitar", Category: "Music"}
	require.NoError(t, db.Create(&guitar).Error)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	swap := models.Swap{
		ProposerID: alice.ID, ReceiverID: bob.ID,
		OfferedSkillID: guitar.ID, RequestedSkillID: guitar.ID,
		Status: models.SwapStatusPending, Timestamp: created,
	}
	require.NoError(t, db.Create(&swap).Error)

	swap.Status = models.SwapStatusAccepted
	swap.Timestamp = created.Add(time.Hour)
	require.NoError(t, db.Omit(clause.Associations).Save(&swap).Error)

	var reloaded models.Swap
	require.NoError(t, db.First(&reloaded, swap.ID).Error)
	assert.Equal(t, models.SwapStatusAccepted, reloaded.Status)
	assert.True(t, created.Equal(reloaded.Timestamp.UTC()))
}

func TestDialect(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"default sqlite", config.Config{}, DriverSQLite},
		{"driver postgres", config.Config{DBDriver: "postgres"}, DriverPostgres},
		{"url postgres wins", config.Config{DBDriver: "sqlite", DatabaseURL: "postgres://u:p@h/db"}, DriverPostgres},
		{"url postgresql", config.Config{DatabaseURL: "postgresql://u:p@h/db"}, DriverPostgres},
		{"url sqlite wins", config.Config{DBDriver: "postgres", DatabaseURL: "sqlite:///instance/x.db"}, DriverSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dialect(&tt.cfg))
		})
	}
	assert.Equal(t, "instance/x.db", sqliteFile(&config.Config{DatabaseURL: "sqlite:///instance/x.db"}))
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "skillswap"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=skillswap sslmode=disable", postgresDSN(cfg))

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", postgresDSN(cfg))
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"sqlite always auto", config.Config{DBSchemaMode: "sql"}, false, true, false},
		{"pg hybrid dev", config.Config{DBDriver: "postgres", Env: "development"}, true, true, false},
		{"pg hybrid prod", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"pg sql", config.Config{DBDriver: "postgres", DBSchemaMode: "SQL"}, true, false, false},
		{"pg auto prod refused", config.Config{DBDriver: "postgres", Env: "prod", DBSchemaMode: "auto"}, false, false, true},
		{"pg auto prod allowed", config.Config{DBDriver: "postgres", Env: "prod", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"unknown mode", config.Config{DBSchemaMode: "magic"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestGetSchemaStatus_SQLite(t *testing.T) {
	cfg := memoryConfig()
	db, err := Connect(cfg)
	require.NoError(t, err)

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, status.Driver)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
}

func TestEmbeddedMigrations(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init", all[0].Name)
	assert.Contains(t, all[0].UpScript, "CREATE TABLE IF NOT EXISTS swaps")
	assert.Contains(t, all[0].DownScript, "DROP TABLE IF EXISTS swaps")
	assert.Equal(t, "000001_init", all[0].String())
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000002_second.up.sql":   {Data: []byte("B")},
		"m/000002_second.down.sql": {Data: []byte("b")},
		"m/000001_first.up.sql":    {Data: []byte("A")},
		"m/000001_first.down.sql":  {Data: []byte("a")},
		"m/README.md":              {Data: []byte("ignored")},
	}
	got, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Version)
	assert.Equal(t, "second", got[1].Name)
	assert.Equal(t, "b", got[1].DownScript)

	_, err = LoadMigrations(fstest.MapFS{"m/000001_x.up.sql": {Data: []byte("A")}}, "m")
	assert.Error(t, err, "missing down script")

	_, err = LoadMigrations(fstest.MapFS{
		"m/abc_x.up.sql":   {Data: []byte("A")},
		"m/abc_x.down.sql": {Data: []byte("a")},
	}, "m")
	assert.Error(t, err, "non-numeric version")
}

type fakeStore struct {
	applied []int
	ran     []int
	failOn  int
}

func (f *fakeStore) GetAppliedMigrations(_ context.Context) ([]int, error) {
	return f.applied, nil
}

func (f *fakeStore) ApplyMigration(_ context.Context, version int, _, _ string) error {
	if version == f.failOn {
		return errors.New("boom")
	}
	f.ran = append(f.ran, version)
	return nil
}

func (f *fakeStore) RemoveMigration(_ context.Context, version int, _ string) error {
	f.ran = append(f.ran, -version)
	return nil
}

func TestApplyPending(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "a"}, {Version: 2, Name: "b"}, {Version: 3, Name: "c"}}

	store := &fakeStore{applied: []int{1}}
	require.NoError(t, applyPending(context.Background(), store, registered))
	assert.Equal(t, []int{2, 3}, store.ran)

	store = &fakeStore{failOn: 2}
	assert.Error(t, applyPending(context.Background(), store, registered))
	assert.Equal(t, []int{1}, store.ran)

	store = &fakeStore{applied: []int{1, 7}}
	err := applyPending(context.Background(), store, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}

func TestRollback(t *testing.T) {
	store := &fakeStore{applied: []int{1}}
	require.NoError(t, rollback(context.Background(), store, 1))
	assert.Equal(t, []int{-1}, store.ran)

	assert.Error(t, rollback(context.Background(), &fakeStore{}, 1), "not applied")
	assert.Error(t, rollback(context.Background(), &fakeStore{}, 42), "unknown version")
}

func TestCustomGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 0 }, errors.New("syntax"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 3", 0 }, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 4", 0 }, errors.New("x"))
	assert.Empty(t, buf.String())
}

func TestPersistentModels(t *testing.T) {
	var hasSwap bool
	for _, m := range PersistentModels() {
		if _, ok := m.(*models.Swap); ok {
			hasSwap = true
		}
	}
	assert.True(t, hasSwap)
}
