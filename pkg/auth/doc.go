// Package auth provides the token service and the password hasher.
//
// The token service issues and verifies signed, time-limited JWTs (HS256)
// used both as session bearer tokens and as single-use password-reset
// tokens. Verification failures are collapsed into a single opaque error
// so callers cannot distinguish a bad signature from an expired token;
// the underlying cause is preserved via error wrapping for logging only.
package auth
