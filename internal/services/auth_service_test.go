package services

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/config"
	"github.com/farwaysec/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.Product{},
		&models.Subscription{},
		&models.Threat{},
		&models.ScanReport{},
		&models.SecurityEvent{},
	))
	return db
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, token, err := service.Register(RegisterInput{
		Email:     "alice@example.com",
		Password:  "password123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// Same email again must conflict, and only one record may exist.
	_, _, err = service.Register(RegisterInput{
		Email:     "alice@example.com",
		Password:  "otherpassword",
		FirstName: "Alice",
		LastName:  "Clone",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	_, _, err := service.Register(RegisterInput{
		Email: "bob@example.com", Password: "password123", FirstName: "Bob", LastName: "Jones",
	})
	require.NoError(t, err)

	// Success
	result, err := service.Login("bob@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.RequiresTwoFactor)
	assert.Equal(t, "bob@example.com", result.User.Email)

	// Wrong password and unknown email return the same error so accounts
	// cannot be enumerated.
	_, err = service.Login("bob@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_TwoFactorChallenge(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, _, err := service.Register(RegisterInput{
		Email: "carol@example.com", Password: "password123", FirstName: "Carol", LastName: "Lee",
	})
	require.NoError(t, err)

	_, err = service.ToggleTwoFactor(user.ID)
	require.NoError(t, err)

	// A 2FA-enabled user never gets a token straight from login.
	result, err := service.Login("carol@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, result.RequiresTwoFactor)
	assert.Equal(t, user.ID, result.UserID)
	assert.Empty(t, result.Token)
	assert.Nil(t, result.User)
}

func TestAuthService_VerifyTwoFactor(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, _, err := service.Register(RegisterInput{
		Email: "dave@example.com", Password: "password123", FirstName: "Dave", LastName: "Kim",
	})
	require.NoError(t, err)

	// Unknown user
	_, _, err = service.VerifyTwoFactor(9999, "000000")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// 2FA not enabled yet
	_, _, err = service.VerifyTwoFactor(user.ID, "000000")
	assert.ErrorIs(t, err, ErrTwoFactorNotEnabled)

	toggle, err := service.ToggleTwoFactor(user.ID)
	require.NoError(t, err)
	require.True(t, toggle.Enabled)

	// Bad code
	_, _, err = service.VerifyTwoFactor(user.ID, "000000")
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)

	// Valid code for the current window
	code, err := totp.GenerateCode(toggle.Secret, time.Now())
	require.NoError(t, err)

	verified, token, err := service.VerifyTwoFactor(user.ID, code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, verified.ID)

	// A code from far outside the time window must fail.
	stale, err := totp.GenerateCode(toggle.Secret, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)
	_, _, err = service.VerifyTwoFactor(user.ID, stale)
	assert.ErrorIs(t, err, ErrInvalidTwoFactorCode)
}

func TestAuthService_ToggleTwoFactor(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, _, err := service.Register(RegisterInput{
		Email: "erin@example.com", Password: "password123", FirstName: "Erin", LastName: "Wu",
	})
	require.NoError(t, err)

	// Enable: secret and provisioning image are returned.
	toggle, err := service.ToggleTwoFactor(user.ID)
	require.NoError(t, err)
	assert.True(t, toggle.Enabled)
	assert.NotEmpty(t, toggle.Secret)
	assert.True(t, strings.HasPrefix(toggle.QRCodeImage, "data:image/png;base64,"))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.TwoFactorEnabled)
	assert.Equal(t, toggle.Secret, stored.TwoFactorSecret)

	// Disable: back to square one with no residual secret.
	toggle, err = service.ToggleTwoFactor(user.ID)
	require.NoError(t, err)
	assert.False(t, toggle.Enabled)
	assert.Empty(t, toggle.Secret)

	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.TwoFactorEnabled)
	assert.Empty(t, stored.TwoFactorSecret)
}

func TestAuthService_UpdateProfile_PartialMerge(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, _, err := service.Register(RegisterInput{
		Email: "frank@example.com", Password: "password123", FirstName: "Frank", LastName: "Ng",
		Company: "Acme", Phone: "555-0100",
	})
	require.NoError(t, err)

	updated, err := service.UpdateProfile(user.ID, ProfileUpdate{FirstName: "Francis"})
	require.NoError(t, err)
	assert.Equal(t, "Francis", updated.FirstName)
	// Unspecified fields stay untouched.
	assert.Equal(t, "Ng", updated.LastName)
	assert.Equal(t, "frank@example.com", updated.Email)
	assert.Equal(t, "Acme", updated.Company)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, token, err := service.Register(RegisterInput{
		Email: "grace@example.com", Password: "password123", FirstName: "Grace", LastName: "Ha",
	})
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "grace@example.com", claims.Email)
	assert.Equal(t, models.RoleClient, claims.Role)

	// Garbage is rejected.
	_, err = service.ValidateToken("not.a.token")
	assert.Error(t, err)

	// A token signed with a different secret is rejected.
	other := NewAuthService(db, config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	// An expired token is rejected.
	expiredSvc := NewAuthService(db, config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute})
	expiredToken, err := expiredSvc.GenerateToken(user)
	require.NoError(t, err)
	_, err = service.ValidateToken(expiredToken)
	assert.Error(t, err)
}

func TestAuthService_RecordsSecurityEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, _, err := service.Register(RegisterInput{
		Email: "heidi@example.com", Password: "password123", FirstName: "Heidi", LastName: "Om",
	})
	require.NoError(t, err)

	_, err = service.Login("heidi@example.com", "password123")
	require.NoError(t, err)

	var actions []string
	require.NoError(t, db.Model(&models.SecurityEvent{}).
		Where("user_id = ?", user.ID).
		Order("id asc").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{"account_created", "login"}, actions)
}
