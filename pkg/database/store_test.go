package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-platform/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return NewStore(db)
}

func seedUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@x.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(u))
	return u
}

func seedVideo(t *testing.T, s *Store, owner uint, slug string, public bool) *models.Video {
	t.Helper()
	v := &models.Video{Title: slug, Slug: slug, VideoURL: "https://cdn/" + slug, UploaderID: owner, IsPublic: public}
	require.NoError(t, s.CreateVideo(v))
	return v
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url, dialect, dsn string
	}{
		{"postgresql://u:p@localhost:5432/db", DialectPostgres, "postgresql://u:p@localhost:5432/db"},
		{"postgres://localhost/db", DialectPostgres, "postgres://localhost/db"},
		{"mysql://u:p@tcp(localhost:3306)/db", DialectMySQL, "u:p@tcp(localhost:3306)/db?parseTime=true"},
		{"mysql://u:p@tcp(db)/v?charset=utf8mb4", DialectMySQL, "u:p@tcp(db)/v?charset=utf8mb4&parseTime=true"},
		{"sqlite3://video_platform.db", DialectSQLite, "video_platform.db"},
		{":memory:", DialectSQLite, ":memory:"},
	}
	for _, tt := range tests {
		dialect, dsn := ParseURL(tt.url)
		assert.Equal(t, tt.dialect, dialect, tt.url)
		assert.Equal(t, tt.dsn, dsn, tt.url)
	}
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=1", withForeignKeys(":memory:"))
	assert.Equal(t, "file:v.db?cache=shared&_foreign_keys=1", withForeignKeys("file:v.db?cache=shared"))
	assert.Equal(t, "v.db?_fk=0", withForeignKeys("v.db?_fk=0"))
}

func TestForeignKeysEnforced(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateVideo(&models.Video{Title: "Orphan", Slug: "orphan", VideoURL: "u", UploaderID: 999})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))

	cfg := models.DefaultEmbedConfig()
	cfg.VideoID = 999
	assert.Error(t, s.CreateEmbedConfig(&cfg))

	u := seedUser(t, s, "alice")
	v := seedVideo(t, s, u.ID, "demo", true)
	cfg = models.DefaultEmbedConfig()
	cfg.VideoID = v.ID
	assert.NoError(t, s.CreateEmbedConfig(&cfg))
}

func TestMigrateIsRepeatable(t *testing.T) {
	db, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
	assert.True(t, db.HasTable("videos"))
}

func TestUserLookups(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")

	got, err := s.UserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.IsAdmin)

	got, err = s.UserByEmail("alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = s.UserByID(999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUniqueIndexes(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")

	err := s.CreateUser(&models.User{Username: "alice", Email: "other@x.com", PasswordHash: "x"})
	assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)

	seedVideo(t, s, u.ID, "demo", true)
	err = s.CreateVideo(&models.Video{Title: "Demo", Slug: "demo", VideoURL: "u", UploaderID: u.ID})
	assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)
}

func TestSlugExists(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")
	seedVideo(t, s, u.ID, "demo", true)

	ok, err := s.SlugExists("demo")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SlugExists("demo-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFilters(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	seedVideo(t, s, alice.ID, "a-public", true)
	seedVideo(t, s, alice.ID, "a-private", false)
	seedVideo(t, s, bob.ID, "b-public", true)

	public, err := s.ListPublicVideos()
	require.NoError(t, err)
	assert.Len(t, public, 2)
	for _, v := range public {
		assert.True(t, v.IsPublic)
	}

	own, err := s.ListVideosByUploader(alice.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	all, err := s.ListVideosWithUploader()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[1].Uploader.Username)
	assert.False(t, all[1].IsPublic)
	assert.Equal(t, "bob", all[2].Uploader.Username)
}

func TestIncrementViews(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")
	v := seedVideo(t, s, u.ID, "demo", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementViews(v.ID))
	}
	got, err := s.VideoByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Views)

	assert.True(t, errors.Is(s.IncrementViews(12345), ErrNotFound))
}

func TestEmbedConfigs(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, "alice")
	v := seedVideo(t, s, u.ID, "demo", true)

	cfg := models.DefaultEmbedConfig()
	cfg.VideoID = v.ID
	cfg.Autoplay = true
	require.NoError(t, s.CreateEmbedConfig(&cfg))
	require.NotZero(t, cfg.ID)

	got, err := s.EmbedConfigByID(cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, 800, got.Width)
	assert.True(t, got.Controls)
	assert.True(t, got.Autoplay)
	assert.Equal(t, "metadata", got.Preload)

	_, err = s.EmbedConfigByID(cfg.ID + 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}
