package admin

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeForbiddenAction  = "FORBIDDEN_ACTION"
	TextCodeCannotBanSelf    = "CANNOT_BAN_YOURSELF"
	TextCodeUserBanned       = "USER_IS_BANNED"
	TextCodeAccountNotFound  = "USER_NOT_FOUND"
	TextCodePasswordTooShort = "PASSWORD_TOO_SHORT"
	TextCodePasswordTooLong  = "PASSWORD_TOO_LONG"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
)

// ErrForbiddenAction is returned when the permission gate denies an
// admin operation. No state was touched.
var ErrForbiddenAction = errors.New("You are not allowed to perform this action", errors.CategoryAuthz).
	WithTextCode(TextCodeForbiddenAction).
	WithCode(errors.CodeForbidden)

// ErrCannotBanSelf is returned when the acting admin targets their own account.
var ErrCannotBanSelf = errors.New("You cannot ban yourself", errors.CategoryValidation).
	WithTextCode(TextCodeCannotBanSelf).
	WithCode(errors.CodeBadRequest)

// ErrUserBanned blocks session establishment for an actively banned account.
var ErrUserBanned = errors.New("User is banned", errors.CategoryAuthz).
	WithTextCode(TextCodeUserBanned).
	WithCode(errors.CodeForbidden)

// ErrAccountNotFound is surfaced when a referenced account does not exist.
var ErrAccountNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrPasswordTooShort is the fixed eight character floor on forced passwords.
var ErrPasswordTooShort = errors.New("Password is too short", errors.CategoryValidation).
	WithTextCode(TextCodePasswordTooShort).
	WithCode(errors.CodeBadRequest)

// ErrPasswordTooLong bounds forced passwords so bcrypt input stays sane.
var ErrPasswordTooLong = errors.New("Password is too long", errors.CategoryValidation).
	WithTextCode(TextCodePasswordTooLong).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyPassword rejects empty plaintext before it reaches the hasher.
var ErrNoEmptyPassword = errors.New("password cannot be an empty string", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the stable credential mismatch error.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)
