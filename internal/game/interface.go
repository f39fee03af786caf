package game

import "github.com/inryceu/Poker/internal/session"

// Gateway delivers events to individual players. Sends are fire-and-forget:
// the engine never blocks on delivery and never retries.
type Gateway interface {
	Send(playerID string, event Event)
}

// Connectivity reports whether a player has a live, writable connection. A
// disconnected player due to act is folded immediately instead of being left
// to time out.
type Connectivity interface {
	IsConnected(playerID string) bool
}

// SessionStore provides read-only session metadata for starting rounds
type SessionStore interface {
	Get(id string) (*session.Session, error)
}
