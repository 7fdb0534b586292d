package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

func register(t *testing.T, f *fixture) (*entity.User, application.TokenPair) {
	t.Helper()
	u, pair, err := f.auth.Register(context.Background(), application.RegisterInput{
		Email:    "Ada@Example.com",
		Password: "Secret123",
		Name:     "Ada Obi",
		Phone:    "0803 123 4567",
	})
	require.NoError(t, err)
	return u, pair
}

func TestRegister_NormalisesAndIssuesTokens(t *testing.T) {
	f := newFixture(t)
	u, pair := register(t, f)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "+2348031234567", u.Phone)
	assert.Equal(t, entity.RoleCustomer, u.Role)
	assert.NotEqual(t, "Secret123", u.Password)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture(t)
	register(t, f)
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, application.RegisterInput{Email: "ada@example.com", Password: "Secret123", Name: "B", Phone: "08030000000"})
	assert.ErrorIs(t, err, application.ErrDuplicateEmail)

	_, _, err = f.auth.Register(ctx, application.RegisterInput{Email: "other@example.com", Password: "Secret123", Name: "B", Phone: "+2348031234567"})
	assert.ErrorIs(t, err, application.ErrDuplicatePhone)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	register(t, f)
	ctx := context.Background()

	_, _, err := f.auth.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "ada@example.com", "Wrong1234")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	u, _, err := f.auth.Login(ctx, " ADA@example.com ", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newFixture(t)
	u, _ := register(t, f)
	u.IsActive = false
	require.NoError(t, f.store.Repos().Users.Update(context.Background(), u))

	_, _, err := f.auth.Login(context.Background(), "ada@example.com", "Secret123")
	assert.ErrorIs(t, err, application.ErrAccountDisabled)
}

func TestAccessToken_AcceptedAt29MinutesRejectedAt31(t *testing.T) {
	f := newFixture(t)
	u, pair := register(t, f)
	ctx := context.Background()

	f.advance(29 * time.Minute)
	p, err := f.auth.Authorize(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, entity.RoleCustomer, p.Role)

	f.advance(2 * time.Minute)
	_, err = f.auth.Authorize(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}

func TestRefresh_RotatesAndDetectsReuse(t *testing.T) {
	f := newFixture(t)
	_, first := register(t, f)
	ctx := context.Background()

	second, err := f.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.auth.Authorize(ctx, second.AccessToken)
	require.NoError(t, err)

	// replaying the rotated-out token revokes the whole session
	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, application.ErrInvalidToken)

	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, application.ErrInvalidToken)
	_, err = f.auth.Authorize(ctx, second.AccessToken)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	_, pair := register(t, f)

	_, err := f.auth.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, application.ErrInvalidToken)
}

func TestLogout_RevokesRefreshAndAccess(t *testing.T) {
	f := newFixture(t)
	_, pair := register(t, f)
	ctx := context.Background()

	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken))

	_, err := f.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, application.ErrInvalidToken)

	_, err = f.auth.Authorize(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}

func TestLogout_GarbageToken(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.auth.Logout(context.Background(), "not-a-jwt"), application.ErrInvalidToken)
}
