// Package api provides the HTTP transport adapter: it binds the session
// service to request/response endpoints and binds the broadcast channel to
// per-session WebSocket connections.
package api
