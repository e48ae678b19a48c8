package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/auth"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	s := NewUserService(env.db, env.rm, env.cfg, env.logger)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.Equal(t, "alice", u.UserName)
	assert.NotEqual(t, []byte("Secret123"), u.PasswordHash)

	sess, err := s.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.NotEmpty(t, sess.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	id, err := s.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = s.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody", "Secret123")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUserService_RegisterDuplicateKeepsOriginal(t *testing.T) {
	env := newTestEnv(t)
	s := NewUserService(env.db, env.rm, env.cfg, env.logger)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "Other456")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = s.Login(ctx, "alice", "Secret123")
	require.NoError(t, err, "first password still valid")
	_, err = s.Login(ctx, "alice", "Other456")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUserService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	s := NewUserService(env.db, env.rm, env.cfg, env.logger)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "x"},
		{name: "blank username", username: "   ", password: "x"},
		{name: "invalid characters", username: "bob smith", password: "x"},
		{name: "punctuation", username: "bob!", password: "x"},
		{name: "too long", username: strings.Repeat("a", 65), password: "x"},
		{name: "empty password", username: "bob", password: ""},
		{name: "password over bcrypt limit", username: "bob", password: strings.Repeat("p", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.username, tt.password)
			require.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"alice", "Bob_2", "юзер", strings.Repeat("z", 64)} {
		assert.NoError(t, ValidateUsername(ok), ok)
	}
	for _, bad := range []string{"", "a b", "a-b", "a.b", "a/b", "<script>"} {
		assert.ErrorIs(t, ValidateUsername(bad), common.ErrorValidation, bad)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	s := NewUserService(env.db, env.rm, env.cfg, env.logger)
	ctx := context.Background()

	_, err := s.Authenticate(ctx, "")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Authenticate(ctx, "not-a-token")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	foreign, err := auth.GenerateToken(1, "alice", []byte("another-secret"), env.cfg.SessionValidityDuration)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, foreign)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

type fakeUsersRepo struct {
	createErr error
	getOut    *models.User
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) DriverName() string                           { return "fake" }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository              { return nil }

func TestUserService_RepositoryErrors(t *testing.T) {
	env := newTestEnv(t)
	s := NewUserService(env.db, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom, getErr: errBoom}}, env.cfg, env.logger)
	ctx := context.Background()

	_, err := s.Register(ctx, "carol", "pw")
	require.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Contains(t, err.Error(), "error creating user")

	_, err = s.Login(ctx, "carol", "pw")
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}
