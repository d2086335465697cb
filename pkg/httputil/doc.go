// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, and request parsing.
//
// Every error body follows the same envelope:
//
//	{"success": false, "message": "..."}
//
// and successful responses that carry a confirmation rather than a
// resource use {"success": true, "message": "..."}.
package httputil
