package accounts

import "errors"

// Sentinel errors distinguishing the intentional outcomes of the account
// flows from unexpected faults. Handlers map these onto the HTTP error
// taxonomy; anything else becomes a generic 500.
var (
	// ErrInvalidCredentials covers both unknown-email and wrong-password
	// logins so responses do not reveal which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an address that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrEmailNotFound is returned by ForgotPassword for an unknown
	// address.
	ErrEmailNotFound = errors.New("no account with that email")

	// ErrPasswordMismatch is returned when the new password and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrResetTokenInvalid covers every reset-token failure: bad
	// signature, expired, consumed, superseded, or mismatched subject.
	// Deliberately indistinguishable to avoid leaking token state.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

	// ErrUserNotFound is returned by the profile operations for an
	// unknown user ID.
	ErrUserNotFound = errors.New("user not found")
)
