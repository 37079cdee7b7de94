package auth

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-platform/pkg/apperr"
	"video-platform/pkg/database"
	"video-platform/pkg/models"
)

func newTestService(t *testing.T) (*Service, *TokenManager) {
	t.Helper()
	db, err := database.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewService(database.NewStore(db), tokens, log), tokens
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 0)
	assert.Equal(t, DefaultTTL, m.TTL())

	token, err := m.Issue(42)
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(7)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = NewTokenManager("two", time.Hour).Parse("not-a-jwt")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register("", "a@x.com", "pw")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Register("alice", "", "pw")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Register("alice", "a@x.com", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "pw", user.PasswordHash)

	_, err = svc.Register("alice", "different@x.com", "pw")
	require.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "El nombre de usuario ya existe", apperr.As(err).Message)

	_, err = svc.Register("bob", "a@x.com", "pw")
	require.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "El email ya está registrado", apperr.As(err).Message)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)

	token, user, err := svc.Login("alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)

	id, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	current, err := svc.CurrentUser(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, _, err = svc.Login("alice", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, _, err = svc.Login("nobody", "pw")
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	svc, tokens := newTestService(t)
	_, err := svc.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(-61 * time.Minute) }
	token, _, err := svc.Login("alice", "pw")
	require.NoError(t, err)

	_, err = svc.Authenticate(token)
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = svc.Authenticate("")
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

// lateDuplicateStore misses on lookups and collides on insert, as when a
// concurrent registration wins the race for the username.
type lateDuplicateStore struct{}

func (lateDuplicateStore) CreateUser(*models.User) error { return database.ErrDuplicate }

func (lateDuplicateStore) UserByID(uint) (*models.User, error) { return nil, database.ErrNotFound }

func (lateDuplicateStore) UserByUsername(string) (*models.User, error) {
	return nil, database.ErrNotFound
}

func (lateDuplicateStore) UserByEmail(string) (*models.User, error) { return nil, database.ErrNotFound }

func TestRegisterConcurrentDuplicate(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewService(lateDuplicateStore{}, NewTokenManager("test-secret", time.Hour), log)

	_, err := svc.Register("alice", "a@x.com", "pw")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "El nombre de usuario o email ya existe", apperr.As(err).Message)
}
