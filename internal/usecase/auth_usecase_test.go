package usecase

import (
	"context"
	"testing"

	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/delivery/http/middleware"
	"pharmalink/internal/domain/entity"
	"pharmalink/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "+2250711223344"

func (f *fixture) signIn(t *testing.T) (*dto.TokenResponse, context.Context) {
	t.Helper()
	tokens, err := f.auth.SignIn(context.Background(), &dto.SignInRequest{Phone: testPhone, Password: "secret123"})
	require.NoError(t, err)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	return tokens, middleware.ContextWithClaims(context.Background(), claims)
}

func TestSignUpAndSignIn(t *testing.T) {
	f := newFixture(t)

	profile, err := f.auth.SignUp(context.Background(), &dto.SignUpRequest{Phone: testPhone, Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleClient), profile.Role)
	assert.False(t, profile.Onboarded)

	_, err = f.auth.SignUp(context.Background(), &dto.SignUpRequest{Phone: testPhone, Password: "other123"})
	assert.ErrorIs(t, err, ErrPhoneAlreadyExists)

	_, err = f.auth.SignIn(context.Background(), &dto.SignInRequest{Phone: testPhone, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.SignIn(context.Background(), &dto.SignInRequest{Phone: "+2250000000000", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, ctx := f.signIn(t)
	assert.NotEmpty(t, tokens.RefreshToken)
	require.NotNil(t, tokens.Profile)
	assert.Equal(t, profile.ID, tokens.Profile.ID)

	session, err := f.auth.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, session.UserID)
	assert.Equal(t, testPhone, session.Phone)
	assert.Equal(t, "CLIENT", session.Role)

	ok, err := f.tokens.Exists(ctx, cache.AccessTokenKind, session.UserID, session.TokenID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignInRecreatesMissingProfileAndKeepsRole(t *testing.T) {
	f := newFixture(t)

	profile, err := f.auth.SignUp(context.Background(), &dto.SignUpRequest{Phone: testPhone, Password: "secret123"})
	require.NoError(t, err)

	// promoted out of band
	require.NoError(t, f.db.Model(&entity.Profile{}).Where("id = ?", profile.ID).Update("role", entity.RoleAgent).Error)

	tokens, ctx := f.signIn(t)
	assert.Equal(t, "AGENT", tokens.Profile.Role)
	role, _ := middleware.GetRoleFromContext(ctx)
	assert.Equal(t, entity.RoleAgent, role)

	// profile row lost: sign-in recreates it as a client
	require.NoError(t, f.db.Delete(&entity.Profile{}, "id = ?", profile.ID).Error)
	tokens, _ = f.signIn(t)
	assert.Equal(t, "CLIENT", tokens.Profile.Role)
	assert.Equal(t, profile.ID, tokens.Profile.ID)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.SignUp(context.Background(), &dto.SignUpRequest{Phone: testPhone, Password: "secret123"})
	require.NoError(t, err)
	tokens, _ := f.signIn(t)

	rotated, err := f.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: rotated.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOutRevokesTokens(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.SignUp(context.Background(), &dto.SignUpRequest{Phone: testPhone, Password: "secret123"})
	require.NoError(t, err)
	tokens, ctx := f.signIn(t)

	require.NoError(t, f.auth.SignOut(ctx, tokens.RefreshToken))

	session, err := f.auth.GetSession(ctx)
	require.NoError(t, err)
	ok, err := f.tokens.Exists(ctx, cache.AccessTokenKind, session.UserID, session.TokenID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.ErrorIs(t, f.auth.SignOut(context.Background(), ""), ErrUnauthenticated)
}

func TestCompleteProfile(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.SignUp(context.Background(), &dto.SignUpRequest{Phone: testPhone, Password: "secret123"})
	require.NoError(t, err)
	_, ctx := f.signIn(t)

	before, err := f.auth.GetProfile(ctx)
	require.NoError(t, err)
	assert.False(t, before.Onboarded)

	after, err := f.auth.CompleteProfile(ctx, &dto.CompleteProfileRequest{FullName: "  Awa Koné "})
	require.NoError(t, err)
	assert.True(t, after.Onboarded)
	assert.Equal(t, "Awa Koné", *after.FullName)

	refreshed, err := f.auth.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, after.FullName, refreshed.FullName)

	_, err = f.auth.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
