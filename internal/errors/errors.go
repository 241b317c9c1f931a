package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserNotVerified     = errors.New("user email not verified")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrMalformedToken      = errors.New("token is malformed or has an invalid signature")
	ErrTokenBlacklisted    = errors.New("token is blacklisted")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenInvalid        = errors.New("token is not valid for this user")
	ErrMissingToken        = errors.New("no token provided")
	ErrTokenNotOwned       = errors.New("token has expired or is not owned by the client")
	ErrFingerprintMismatch = errors.New("device fingerprint mismatch")
	ErrVerificationExists  = errors.New("an active verification code already exists")
	ErrVerificationExpired = errors.New("verification id expired")
	ErrInvalidResetCode    = errors.New("the code provided does not match any user")
	ErrInvalidVerifyID     = errors.New("invalid id to confirm an account")
)
