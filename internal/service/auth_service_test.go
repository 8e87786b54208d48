package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/crazyplay/storefront-service/internal/models"
)

type fakeAdminRepo struct {
	account *models.AdminAccount
}

func (f *fakeAdminRepo) FindByUsername(_ context.Context, username string) (*models.AdminAccount, error) {
	if f.account == nil || f.account.Username != username {
		return nil, nil
	}
	return f.account, nil
}

func (f *fakeAdminRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.account.PasswordHash = hash
	return nil
}

func newAuthFixture(t *testing.T, password string) (*AuthService, *fakeAdminRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAdminRepo{account: &models.AdminAccount{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: string(hash),
	}}
	return NewAuthService(repo, []byte("test-secret"), time.Hour), repo
}

func TestAuthLoginAndVerify(t *testing.T) {
	svc, _ := newAuthFixture(t, "correct horse")

	token, expiresAt, err := svc.Login(context.Background(), "admin", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	username, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestAuthLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t, "correct horse")

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown user gets the same error as a bad password
	_, _, err = svc.Login(context.Background(), "root", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthVerifyRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t, "pw")

	_, err := svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(&fakeAdminRepo{}, []byte("different-secret"), time.Hour)
	token, _, err := svc.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthChangePassword(t *testing.T) {
	svc, repo := newAuthFixture(t, "old-pass")

	err := svc.ChangePassword(context.Background(), "admin", "bad-current", "new-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), "admin", "old-pass", "new-pass"))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.account.PasswordHash), []byte("new-pass")))

	_, _, err = svc.Login(context.Background(), "admin", "old-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "admin", "new-pass")
	assert.NoError(t, err)
}
