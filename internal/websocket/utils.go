package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Leaderboard streams are push-heavy: writes carry full snapshots and must
// not block on a slow client, while reads only ever see ping envelopes.
const (
	writeTimeout    = 10 * time.Second
	clientIdleLimit = 5 * time.Minute
)

// WriteTyped sends a typed event payload with a bounded write deadline.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// WriteError sends an EventError payload.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next client message, dropping connections that stay
// silent past the idle limit.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(clientIdleLimit))
	return conn.ReadJSON(v)
}
