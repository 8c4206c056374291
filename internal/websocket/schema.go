package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope carries the action of an incoming client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError       Event = "error"
	EventLeaderboard Event = "leaderboard"
	EventPong        Event = "pong"
)

// LeaderboardUpdate pushes a freshly computed leaderboard to subscribers.
// Entries is the ranked board as served by the REST endpoint.
type LeaderboardUpdate struct {
	Event   Event           `json:"event"`
	TestID  string          `json:"test_id"`
	Entries json.RawMessage `json:"entries"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
