package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *mockAuthRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:           "user-1",
		Email:        "coach@club.test",
		PasswordHash: string(hash),
		FullName:     "Anna Neri",
		Role:         models.RoleCoach,
		Active:       active,
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "fortidesk",
	})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "coach@club.test", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleCoach, resp.User.Role)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleCoach, claims.Role)
	assert.Equal(t, "fortidesk", claims.Issuer)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "coach@club.test", Password: "wrong"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "email")

	inactive, _ := newAuthFixture(t, false)
	_, err = inactive.Login(ctx, models.LoginRequest{Email: "coach@club.test", Password: "secret123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInactiveAccount))

	missing, repo := newAuthFixture(t, true)
	repo.findByEmailErr = errNoRows
	_, err = missing.Login(ctx, models.LoginRequest{Email: "nobody@club.test", Password: "secret123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	repo.findByEmailErr = errors.New("db down")
	_, err = missing.Login(ctx, models.LoginRequest{Email: "nobody@club.test", Password: "secret123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "coach@club.test", Password: "secret123"})
	require.NoError(t, err)

	other := NewAuthService(&mockAuthRepo{}, nil, nil, AuthConfig{AccessTokenSecret: "other"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
