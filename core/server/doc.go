// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key checked by the auth
// middleware, and the graceful shutdown timeout.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/start.go to listen and shut down.
package server
