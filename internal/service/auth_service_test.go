package service

import (
	"context"
	"testing"
	"time"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/internal/testutil"
	"hcp-visit-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *utils.TokenIssuer, *gorm.DB) {
	cost := utils.BcryptCost
	utils.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { utils.BcryptCost = cost })

	db := testutil.NewDB(t)
	tokens := utils.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	svc := NewAuthService(repository.NewUserRepo(db), repository.NewAuditRepo(db), tokens)
	return svc, tokens, db
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens, db := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Manager", "Manager@Example.com", "s3cret", models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", user.Email)

	resp, err := svc.Login(ctx, " MANAGER@example.com ", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, UserResponse{ID: user.ID, Name: "Manager", Email: "manager@example.com", Role: models.RoleManager}, resp.User)

	claims, err := tokens.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)

	var stored models.RefreshToken
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, utils.HashRefreshToken(resp.RefreshToken), stored.TokenHash)

	var logins int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", repository.AuditUserLogin).Count(&logins).Error)
	assert.Equal(t, int64(1), logins)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Rep", "rep@example.com", "s3cret", models.RoleRep)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "rep@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, tokens, _ := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Admin", "admin@example.com", "s3cret", models.RoleAdmin)
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "admin@example.com", "s3cret")
	require.NoError(t, err)

	access, err := svc.RefreshAccessToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	_, err = svc.RefreshAccessToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.RefreshAccessToken(ctx, "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	svc, _, db := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Rep", "rep@example.com", "s3cret", models.RoleRep)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken("stale"),
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)

	_, err = svc.RefreshAccessToken(ctx, "stale")
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Rep", "rep@example.com", "s3cret", models.RoleRep)
	require.NoError(t, err)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "rep@example.com", me.Email)

	_, err = svc.Me(ctx, user.ID+100)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthService_CreateUserRejectsUnknownRole(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.CreateUser(context.Background(), "X", "x@example.com", "pw", "superuser")
	assert.Error(t, err)
}

func TestAuthService_EnsureUser(t *testing.T) {
	svc, _, db := setupAuthService(t)
	ctx := context.Background()

	first, created, err := svc.EnsureUser(ctx, "Admin", "admin@example.com", "s3cret", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.EnsureUser(ctx, "Other", "ADMIN@example.com", "different", models.RoleRep)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.RoleAdmin, second.Role)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
