package services

import (
	"testing"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	resp, err := f.auth.Register(f.ctx, &RegisterInput{
		Name:     " Jane Doe ",
		Email:    "Jane@Example.com ",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", resp.User.Name)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleMember, resp.User.Role)
	assert.Equal(t, 15*60, resp.ExpiresIn)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := f.auth.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(domain.RoleMember), claims.Role)

	stored, err := f.store.Users.GetByID(f.ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)

	_, err = f.auth.Register(f.ctx, &RegisterInput{Name: "Other", Email: "jane@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_SameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(f.ctx, &RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(f.ctx, &LoginInput{Email: "jane@example.com", Password: "nope"})
	_, unknownEmail := f.auth.Login(f.ctx, &LoginInput{Email: "ghost@example.com", Password: "secret123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(wrongPassword))
	assert.Equal(t, domain.KindAuthentication, domain.KindOf(unknownEmail))

	resp, err := f.auth.Login(f.ctx, &LoginInput{Email: "JANE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.User.Email)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture(t)
	user := f.user(domain.RoleMember)
	admin := f.user(domain.RoleAdmin)
	inactive := false
	_, err := f.users.UpdateUserByAdmin(f.ctx, user.ID, admin.ID, &UpdateUserByAdminInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.auth.Login(f.ctx, &LoginInput{Email: user.Email, Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	f := newFixture(t)
	first, err := f.auth.Register(f.ctx, &RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	second, err := f.auth.RefreshToken(f.ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.auth.RefreshToken(f.ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	require.NoError(t, f.auth.Logout(f.ctx, second.RefreshToken))
	_, err = f.auth.RefreshToken(f.ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, err = f.auth.RefreshToken(f.ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	f := newFixture(t)
	resp, err := f.auth.Register(f.ctx, &RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	userID := resp.User.ID

	err = f.auth.ChangePassword(f.ctx, userID, &ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "another123"})
	assert.ErrorIs(t, err, domain.ErrOldPasswordWrong)

	require.NoError(t, f.auth.ChangePassword(f.ctx, userID, &ChangePasswordInput{CurrentPassword: "secret123", NewPassword: "another123"}))

	_, err = f.auth.RefreshToken(f.ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, err = f.auth.Login(f.ctx, &LoginInput{Email: "jane@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(f.ctx, &LoginInput{Email: "jane@example.com", Password: "another123"})
	assert.NoError(t, err)
}

func TestGetProfile_CountsActiveSessions(t *testing.T) {
	f := newFixture(t)
	resp, err := f.auth.Register(f.ctx, &RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	userID := resp.User.ID

	_, err = f.auth.Login(f.ctx, &LoginInput{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	profile, err := f.auth.GetProfile(f.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, int64(2), profile.ActiveSessions)

	require.NoError(t, f.auth.Logout(f.ctx, resp.RefreshToken))
	profile, err = f.auth.GetProfile(f.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ActiveSessions)

	require.NoError(t, f.auth.LogoutAll(f.ctx, userID))
	profile, err = f.auth.GetProfile(f.ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, profile.ActiveSessions)

	_, err = f.auth.GetProfile(f.ctx, "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	f := newFixture(t)
	token, err := jwt.GenerateAccessToken("507f1f77bcf86cd799439011", "a@example.com", "Admin", "other_secret", 5)
	require.NoError(t, err)

	_, err = f.auth.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestUpdateUserByAdmin_SelfGuards(t *testing.T) {
	f := newFixture(t)
	admin := f.user(domain.RoleAdmin)
	inactive := false

	_, err := f.users.UpdateUserByAdmin(f.ctx, admin.ID, admin.ID, &UpdateUserByAdminInput{Role: strPtr("Member")})
	assert.ErrorIs(t, err, domain.ErrCannotChangeOwnRole)

	_, err = f.users.UpdateUserByAdmin(f.ctx, admin.ID, admin.ID, &UpdateUserByAdminInput{IsActive: &inactive})
	assert.ErrorIs(t, err, domain.ErrCannotDisableSelf)

	other := f.user(domain.RoleMember)
	_, err = f.users.UpdateUserByAdmin(f.ctx, other.ID, admin.ID, &UpdateUserByAdminInput{Email: strPtr(admin.Email)})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	updated, err := f.users.UpdateUserByAdmin(f.ctx, other.ID, admin.ID, &UpdateUserByAdminInput{Role: strPtr("Admin")})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
}
