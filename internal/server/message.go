package server

import (
	"encoding/json"
	"time"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol. Game
// events (round_started, your_turn, ...) are defined in internal/game and
// ride the same envelope with the event type as the message type.
const (
	// Client to server messages
	MessageTypeAuth          MessageType = "auth"
	MessageTypeCreateSession MessageType = "create_session"
	MessageTypeJoinSession   MessageType = "join_session"
	MessageTypeLeaveSession  MessageType = "leave_session"
	MessageTypeStartGame     MessageType = "start_game"
	MessageTypeAction        MessageType = "action"

	// Server to client messages
	MessageTypeAuthResponse   MessageType = "auth_response"
	MessageTypeSessionCreated MessageType = "session_created"
	MessageTypeSessionJoined  MessageType = "session_joined"
	MessageTypeSessionLeft    MessageType = "session_left"
	MessageTypePlayerJoined   MessageType = "player_joined"
	MessageTypePlayerLeft     MessageType = "player_left"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type CreateSessionData struct {
	Players      []string `json:"players"`
	StartBalance int      `json:"startBalance,omitempty"`
	MinBet       int      `json:"minBet,omitempty"`
	MaxBet       int      `json:"maxBet,omitempty"`
	SmallBlind   int      `json:"smallBlind,omitempty"`
	BigBlind     int      `json:"bigBlind,omitempty"`
	RoundTime    int      `json:"roundTime,omitempty"` // seconds
}

type JoinSessionData struct {
	SessionID string `json:"sessionId"`
}

type LeaveSessionData struct {
	SessionID string `json:"sessionId"`
}

type StartGameData struct {
	SessionID string `json:"sessionId"`
}

type ActionData struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"`
	Amount    int    `json:"amount,omitempty"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SessionCreatedData struct {
	SessionID string       `json:"sessionId"`
	Session   *SessionInfo `json:"session"`
}

type SessionJoinedData struct {
	SessionID string       `json:"sessionId"`
	Session   *SessionInfo `json:"session"`
}

type SessionLeftData struct {
	SessionID string `json:"sessionId"`
}

type PlayerJoinedData struct {
	SessionID string   `json:"sessionId"`
	Player    string   `json:"player"`
	Players   []string `json:"players"`
}

type PlayerLeftData struct {
	SessionID string   `json:"sessionId"`
	Player    string   `json:"player"`
	Players   []string `json:"players"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionInfo is the client-facing view of a session
type SessionInfo struct {
	ID           string   `json:"id"`
	Admin        string   `json:"admin"`
	Players      []string `json:"players"`
	StartBalance int      `json:"startBalance"`
	MinBet       int      `json:"minBet"`
	MaxBet       int      `json:"maxBet"`
	SmallBlind   int      `json:"smallBlind"`
	BigBlind     int      `json:"bigBlind"`
	RoundTime    int      `json:"roundTime"`
}
