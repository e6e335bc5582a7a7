package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/services"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *services.AuthService, *gorm.DB) {
	db := setupHandlerDB(t)
	authService := services.NewAuthService(db, testConfig())
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	// Tests drive the protected routes as user 1.
	handler.RegisterRoutes(api, asUser(1, "client"))
	return r, authService, db
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := jsonRequest(t, r, "POST", "/api/auth/register", registerBody("new@example.com"))
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "new@example.com", user["email"])
	// No password material may ever leave the API.
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "twoFactorSecret")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := jsonRequest(t, r, "POST", "/api/auth/register", registerBody("dup@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = jsonRequest(t, r, "POST", "/api/auth/register", registerBody("dup@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists with this email")
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	// Short password
	w := jsonRequest(t, r, "POST", "/api/auth/register", map[string]interface{}{
		"email": "x@example.com", "password": "short", "firstName": "A", "lastName": "B",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid JSON
	w = jsonRequest(t, r, "POST", "/api/auth/register", "not-an-object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := jsonRequest(t, r, "POST", "/api/auth/register", registerBody("login@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = jsonRequest(t, r, "POST", "/api/auth/login", map[string]interface{}{
		"email": "login@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	// Bad password and unknown user share one message.
	w = jsonRequest(t, r, "POST", "/api/auth/login", map[string]interface{}{
		"email": "login@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = jsonRequest(t, r, "POST", "/api/auth/login", map[string]interface{}{
		"email": "ghost@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestAuthHandler_TwoFactorFlow(t *testing.T) {
	r, authService, db := setupAuthRouter(t)

	// The protected routes run as user 1, so register that user first.
	w := jsonRequest(t, r, "POST", "/api/auth/register", registerBody("2fa@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Enable 2FA through the toggle endpoint.
	w = jsonRequest(t, r, "POST", "/api/auth/toggle-2fa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["twoFactorEnabled"])
	secret, _ := body["twoFactorSecret"].(string)
	require.NotEmpty(t, secret)
	qr, _ := body["qrCodeImage"].(string)
	assert.Contains(t, qr, "data:image/png;base64,")

	// Login now yields a challenge, never a token.
	w = jsonRequest(t, r, "POST", "/api/auth/login", map[string]interface{}{
		"email": "2fa@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["requiresTwoFactor"])
	assert.NotContains(t, body, "token")
	userID := uint(body["userId"].(float64))

	// Wrong code
	w = jsonRequest(t, r, "POST", "/api/auth/verify-2fa", map[string]interface{}{
		"userId": userID, "twoFactorCode": "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Right code
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	w = jsonRequest(t, r, "POST", "/api/auth/verify-2fa", map[string]interface{}{
		"userId": userID, "twoFactorCode": code,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	// Toggle again: disabled, secret wiped.
	w = jsonRequest(t, r, "POST", "/api/auth/toggle-2fa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["twoFactorEnabled"])
	assert.NotContains(t, body, "twoFactorSecret")

	user, err := authService.GetProfile(userID)
	require.NoError(t, err)
	assert.False(t, user.TwoFactorEnabled)
	_ = db
}

func TestAuthHandler_VerifyTwoFactor_Errors(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := jsonRequest(t, r, "POST", "/api/auth/register", registerBody("plain@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Unknown user
	w = jsonRequest(t, r, "POST", "/api/auth/verify-2fa", map[string]interface{}{
		"userId": 9999, "twoFactorCode": "123456",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 2FA not enabled
	w = jsonRequest(t, r, "POST", "/api/auth/verify-2fa", map[string]interface{}{
		"userId": 1, "twoFactorCode": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not enabled")
}

func TestAuthHandler_Profile(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := jsonRequest(t, r, "POST", "/api/auth/register", registerBody("profile@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = jsonRequest(t, r, "GET", "/api/auth/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "profile@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")

	// Partial update: only firstName changes.
	w = jsonRequest(t, r, "PUT", "/api/auth/profile", map[string]interface{}{
		"firstName": "Renamed",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "Renamed", user["firstName"])
	assert.Equal(t, "User", user["lastName"])
}
