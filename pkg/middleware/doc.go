// Package middleware provides the HTTP request checks that gate routes:
// bearer-token authentication, role checks, permission checks, and rate
// limiting.
//
// The chain is ordered: Authenticate must run before RequireRole or
// RequirePermission, since both resolve the principal from the request
// context. Role and permission checks hit the stores on every request;
// only the role documents themselves are cached (they are seeded
// administratively and effectively immutable at runtime).
package middleware
