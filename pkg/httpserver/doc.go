// Package httpserver runs an http.Server with graceful shutdown on context
// cancellation or SIGINT/SIGTERM.
package httpserver
