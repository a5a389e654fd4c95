package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	return NewAuthService(users, testJWTSecret, time.Hour), users
}

func TestRegister_CreatesUserWithoutExposingHash(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Avery", "avery@example.com", "hunter22", domain.RoleAthlete, "")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, domain.RoleAthlete, user.Role)
	assert.Equal(t, domain.ExperienceIntermediate, user.Experience)
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByEmail(ctx, "avery@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Avery", "avery@example.com", "hunter22", domain.RoleAthlete, "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Imposter", "avery@example.com", "other", domain.RoleCoach, "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "Avery", "avery@example.com", "hunter22", domain.Role("admin"), "")
	assert.Error(t, err)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Avery", "avery@example.com", "hunter22", domain.RoleCoach, domain.ExperienceAdvanced)
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "avery@example.com", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleCoach, claims.Role)
	assert.Equal(t, "gainsly", claims.Issuer)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Avery", "avery@example.com", "hunter22", domain.RoleAthlete, "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "avery@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
