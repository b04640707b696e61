package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/creative-cluster/studio-api/internal/core/domain"
	"github.com/creative-cluster/studio-api/internal/core/ports"
)

var alice = ports.SignUpInput{Email: "a@x.com", Username: "alice", Password: "Secret123"}

func TestAuthService_SignUp_Success(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, domain.RoleCustomer, res.User.Role)
	assert.Equal(t, domain.ThemeSystem, res.User.Theme)

	stored := f.repo.users[res.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")))

	claims, err := f.tokens.VerifyAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)

	_, err = f.tokens.VerifyRefreshToken(res.Tokens.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.sessions.count())
}

func TestAuthService_SignUp_ProjectionHasNoPassword(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$")
}

func TestAuthService_SignUp_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.SignUp(context.Background(), ports.SignUpInput{Email: "  A@X.com ", Username: "alice", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.User.Email)

	_, err = f.svc.SignIn(context.Background(), "A@x.COM", "Secret123")
	assert.NoError(t, err)
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	_, err = f.svc.SignUp(context.Background(), alice)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.svc.SignUp(context.Background(), ports.SignUpInput{Email: "other@x.com", Username: "alice", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	assert.Equal(t, 1, f.repo.creates)
}

func TestAuthService_SignUp_StorageConflictBackstop(t *testing.T) {
	f := newAuthFixture(t)
	repo := &racingRepo{stubUserRepo: f.repo}
	svc := NewAuthService(repo, f.sessions, f.svc.hasher, f.tokens, f.svc.logger)

	_, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	// The lookup misses (as if the other insert had not landed yet); the
	// unique index still rejects the second record.
	_, err = svc.SignUp(context.Background(), alice)
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, 1, f.repo.creates)
}

func TestAuthService_SignUp_LookupFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.err = errors.New("connection reset")

	_, err := f.svc.SignUp(context.Background(), alice)
	require.Error(t, err)
	assert.False(t, domain.IsConflict(err))
	assert.Equal(t, 0, f.repo.creates)
}

func TestAuthService_SignUp_PasswordTooLongForBcrypt(t *testing.T) {
	f := newAuthFixture(t)

	in := alice
	in.Password = strings.Repeat("пароль", 7)
	_, err := f.svc.SignUp(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.repo.creates)
}

func TestAuthService_SignIn_Success(t *testing.T) {
	f := newAuthFixture(t)
	signedUp, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	res, err := f.svc.SignIn(context.Background(), "a@x.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEqual(t, signedUp.Tokens.RefreshToken, res.Tokens.RefreshToken)
	assert.Equal(t, 2, f.sessions.count())
}

func TestAuthService_SignIn_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	_, wrongPassword := f.svc.SignIn(context.Background(), "a@x.com", "Secret124")
	_, unknownEmail := f.svc.SignIn(context.Background(), "ghost@x.com", "Secret123")

	assert.Equal(t, domain.ErrInvalidCredentials, wrongPassword)
	assert.Equal(t, domain.ErrInvalidCredentials, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_SignIn_RepositoryFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.err = errors.New("connection reset")

	_, err := f.svc.SignIn(context.Background(), "a@x.com", "Secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken_Rotates(t *testing.T) {
	f := newAuthFixture(t)
	signedUp, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(context.Background(), signedUp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, refreshed.User.ID)
	assert.NotEqual(t, signedUp.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	// The old refresh token was consumed.
	_, err = f.svc.RefreshToken(context.Background(), signedUp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// The new one works.
	_, err = f.svc.RefreshToken(context.Background(), refreshed.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_RefreshToken_PicksUpRoleChange(t *testing.T) {
	f := newAuthFixture(t)
	signedUp, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	f.repo.users[signedUp.User.ID].Role = domain.RoleCreator

	refreshed, err := f.svc.RefreshToken(context.Background(), signedUp.Tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := f.tokens.VerifyAccessToken(refreshed.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCreator, claims.Role)
}

func TestAuthService_RefreshToken_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	signedUp, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.RefreshToken(context.Background(), signedUp.Tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	delete(f.repo.users, signedUp.User.ID)
	_, err = f.svc.RefreshToken(context.Background(), signedUp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_SignOut(t *testing.T) {
	f := newAuthFixture(t)
	signedUp, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	// A token belonging to somebody else is ignored.
	require.NoError(t, f.svc.SignOut(context.Background(), "someone-else", signedUp.Tokens.RefreshToken))
	assert.Equal(t, 1, f.sessions.count())

	require.NoError(t, f.svc.SignOut(context.Background(), signedUp.User.ID, signedUp.Tokens.RefreshToken))
	assert.Equal(t, 0, f.sessions.count())

	_, err = f.svc.RefreshToken(context.Background(), signedUp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Idempotent, and tolerant of missing or junk tokens.
	assert.NoError(t, f.svc.SignOut(context.Background(), signedUp.User.ID, signedUp.Tokens.RefreshToken))
	assert.NoError(t, f.svc.SignOut(context.Background(), signedUp.User.ID, ""))
	assert.NoError(t, f.svc.SignOut(context.Background(), signedUp.User.ID, "junk"))
}

func TestAuthService_GetMe(t *testing.T) {
	f := newAuthFixture(t)
	signedUp, err := f.svc.SignUp(context.Background(), alice)
	require.NoError(t, err)

	me, err := f.svc.GetMe(context.Background(), signedUp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = f.svc.GetMe(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// racingRepo hides existing users from the uniqueness lookup.
type racingRepo struct {
	*stubUserRepo
}

func (r *racingRepo) FindByEmailOrUsername(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
