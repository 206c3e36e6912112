// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Application close codes, in the 3000-3999 range reserved for libraries and
// frameworks by RFC 6455.
const (
	// BadSubprotocolError is sent when a client negotiates the wrong
	// subprotocol.
	BadSubprotocolError websocket.StatusCode = 3000
)
