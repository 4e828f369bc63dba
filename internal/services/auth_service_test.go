package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/auth"
	"github.com/pipedesk/pipedesk/internal/config"
	"github.com/pipedesk/pipedesk/internal/models"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, org, tokens, err := svc.Register("Ada", "Ada@Example.Test ", "password123", "Lovelace Inc")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.test", user.Email)
	assert.Equal(t, "Lovelace Inc", org.Name)
	assert.Equal(t, config.App.DefaultCurrency, org.DefaultCurrency)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// The password never lands in plaintext.
	assert.NotEqual(t, "password123", user.PasswordHash)

	var member models.OrganizationMember
	require.NoError(t, db.Where("organization_id = ? AND user_id = ?", org.ID, user.ID).First(&member).Error)
	assert.Equal(t, models.RoleOwner, member.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, _, _, err := svc.Register("Ada", "ada@example.test", "password123", "First")
	require.NoError(t, err)

	_, _, _, err = svc.Register("Imposter", "ada@example.test", "password456", "Second")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRegister_UniqueIndexConflictIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, _, _, err := svc.Register("Ada", "ada@example.test", "password123", "First")
	require.NoError(t, err)

	// Soft-delete the account. The email no longer shows up in the
	// pre-insert existence check but still occupies the unique index, so the
	// insert itself collides, the same shape as a concurrent registration.
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	_, _, _, err = svc.Register("Again", "ada@example.test", "password456", "Second")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, org, _, err := svc.Register("Ada", "ada@example.test", "password123", "Lovelace Inc")
	require.NoError(t, err)

	user, memberships, tokens, err := svc.Login("ADA@example.test", "password123")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.test", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	require.Len(t, memberships, 1)
	assert.Equal(t, org.ID, memberships[0].OrganizationID)
}

func TestLogin_StorageFailureIsNotBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, _, _, err = svc.Login("ada@example.test", "password123")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestLogin_WrongCredentialsIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, _, _, err := svc.Register("Ada", "ada@example.test", "password123", "Lovelace Inc")
	require.NoError(t, err)

	_, _, _, errWrongPassword := svc.Login("ada@example.test", "wrong")
	_, _, _, errWrongEmail := svc.Login("nobody@example.test", "password123")

	require.Error(t, errWrongPassword)
	require.Error(t, errWrongEmail)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(errWrongPassword))
	assert.Equal(t, errWrongPassword.Error(), errWrongEmail.Error())
}

func TestRefresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, _, tokens, err := svc.Register("Ada", "ada@example.test", "password123", "Lovelace Inc")
	require.NoError(t, err)

	rotated, err := svc.Refresh(tokens.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	userID, err := auth.VerifyToken(rotated.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}
