// Package httpapi serves the JSON API the vault plugin talks to.
//
// Routes:
//
//	GET  /               welcome message
//	POST /get-tags       tag every indexed note, optionally ingesting files first
//	POST /internal-links related notes for one note
//	GET  /api/status     liveness
//	POST /api/echo       echoes the request body
//
// Domain errors map to HTTP status codes in errors.go.
package httpapi
