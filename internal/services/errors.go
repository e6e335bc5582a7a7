package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses; everything else is treated as an internal error.
var (
	ErrEmailTaken           = errors.New("user already exists with this email")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrTwoFactorNotEnabled  = errors.New("two-factor authentication not enabled for this user")
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")

	ErrDeviceNotFound       = errors.New("device not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
