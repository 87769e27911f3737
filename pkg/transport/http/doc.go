// Package http serves the completion API over HTTP. The create
// endpoint speaks the single-line wire format for its results and
// errors; the management endpoints (get, list, delete) speak ordinary
// JSON.
package http
