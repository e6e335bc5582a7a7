package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/farwaysec/backend/internal/config"
	"github.com/farwaysec/backend/internal/logger"
	"github.com/farwaysec/backend/internal/metrics"
	"github.com/farwaysec/backend/internal/models"
	"github.com/farwaysec/backend/internal/version"
)

// Claims are the JWT claims carried by every session token.
type Claims struct {
	UserID uint            `json:"id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login, 2FA and profile management.
type AuthService struct {
	db  *gorm.DB
	cfg config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.UserRole
	Company   string
	Phone     string
}

// Register creates a new user and issues a session token. A duplicate email
// fails with ErrEmailTaken, whether caught by the pre-check or by the unique
// index when two registrations race.
func (s *AuthService) Register(in RegisterInput) (*models.User, string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleClient
	}

	user := &models.User{
		UUID:      uuid.NewString(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		Company:   in.Company,
		Phone:     in.Phone,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.recordEvent(user.ID, "account_created", "")
	return user, token, nil
}

// LoginResult is either a finished login (Token set) or a 2FA challenge
// (RequiresTwoFactor set along with the user id to verify against).
type LoginResult struct {
	Token             string
	User              *models.User
	RequiresTwoFactor bool
	UserID            uint
}

// Login checks credentials. Unknown email and wrong password return the same
// error so callers cannot enumerate accounts. A 2FA-enabled user never gets a
// token here; they get a challenge to complete via VerifyTwoFactor.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.CheckPassword(password) {
		metrics.IncLoginFailure()
		s.recordEvent(user.ID, "login_failed", "bad password")
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		return &LoginResult{RequiresTwoFactor: true, UserID: user.ID}, nil
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, err
	}

	metrics.IncLogin()
	s.recordEvent(user.ID, "login", "")
	return &LoginResult{Token: token, User: &user}, nil
}

// VerifyTwoFactor completes a 2FA challenge and issues a token.
func (s *AuthService) VerifyTwoFactor(userID uint, code string) (*models.User, string, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if user.TwoFactorSecret == "" {
		return nil, "", ErrTwoFactorNotEnabled
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		s.recordEvent(user.ID, "2fa_failed", "")
		return nil, "", ErrInvalidTwoFactorCode
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}

	metrics.IncLogin()
	s.recordEvent(user.ID, "login", "2fa verified")
	return &user, token, nil
}

// TwoFactorToggle is the result of flipping 2FA on or off. Secret and QR
// image are only present when enabling.
type TwoFactorToggle struct {
	Enabled     bool
	Secret      string
	QRCodeImage string
}

// ToggleTwoFactor flips 2FA for the user. Enabling generates a fresh shared
// secret and a provisioning QR image; disabling clears the stored secret.
func (s *AuthService) ToggleTwoFactor(userID uint) (*TwoFactorToggle, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.TwoFactorEnabled {
		user.TwoFactorEnabled = false
		user.TwoFactorSecret = ""
		// Select forces the zeroed secret column through the update.
		if err := s.db.Model(&user).Select("two_factor_enabled", "two_factor_secret").Updates(&user).Error; err != nil {
			return nil, fmt.Errorf("disable 2fa: %w", err)
		}
		s.recordEvent(user.ID, "2fa_disabled", "")
		return &TwoFactorToggle{Enabled: false}, nil
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      version.Name,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}

	user.TwoFactorEnabled = true
	user.TwoFactorSecret = key.Secret()
	if err := s.db.Model(&user).Select("two_factor_enabled", "two_factor_secret").Updates(&user).Error; err != nil {
		return nil, fmt.Errorf("enable 2fa: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	s.recordEvent(user.ID, "2fa_enabled", "")
	return &TwoFactorToggle{
		Enabled:     true,
		Secret:      key.Secret(),
		QRCodeImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// GetProfile returns the user record for the given id.
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// ProfileUpdate carries the mutable profile fields. Empty strings mean
// "leave untouched"; this is a partial merge, not a replace.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
}

// UpdateProfile merges the provided fields into the user's profile.
func (s *AuthService) UpdateProfile(userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != "" {
		user.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		user.LastName = upd.LastName
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}

	if err := s.db.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.recordEvent(user.ID, "profile_updated", "")
	return user, nil
}

// GenerateToken signs a session token for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token, failing closed on
// expiry, bad signature or unexpected signing method.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// recordEvent appends to the user's security history. Auditing must never
// break the operation being audited, so failures are logged and swallowed.
func (s *AuthService) recordEvent(userID uint, action, details string) {
	event := models.SecurityEvent{
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
		Details:   details,
	}
	if err := s.db.Create(&event).Error; err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID, "action": action}).
			WithError(err).Warn("failed to record security event")
	}
}

// isUniqueViolation reports whether err came from a unique index. GORM's
// translated error covers most drivers; the string check covers raw SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
