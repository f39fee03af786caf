package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
			_ = c.Close()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	if msg.Type != MessageTypeAuth && c.GetPlayer() == "" {
		c.sendError("not_authenticated", "Authenticate first")
		return
	}

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeCreateSession:
		var data CreateSessionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create session data")
			return
		}
		c.handleCreateSession(data)

	case MessageTypeJoinSession:
		var data JoinSessionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join session data")
			return
		}
		c.handleJoinSession(data)

	case MessageTypeLeaveSession:
		var data LeaveSessionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leave session data")
			return
		}
		c.handleLeaveSession(data)

	case MessageTypeStartGame:
		var data StartGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start game data")
			return
		}
		c.handleStartGame(data)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleAuth(data AuthData) {
	name := strings.TrimSpace(data.PlayerName)
	if name == "" {
		c.sendResponse(MessageTypeAuthResponse, AuthResponseData{
			Success: false,
			Error:   "player name is required",
		})
		return
	}

	c.SetPlayer(name)
	c.server.bindPlayer(name, c)
	c.logger.Info("Player authenticated", "player", name)

	c.sendResponse(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: name,
	})
}

func (c *Connection) handleCreateSession(data CreateSessionData) {
	sess, err := c.server.gameService.CreateSession(c.GetPlayer(), data)
	if err != nil {
		c.sendError("create_session_failed", err.Error())
		return
	}
	c.sendResponse(MessageTypeSessionCreated, SessionCreatedData{
		SessionID: sess.ID,
		Session:   SessionInfoFrom(sess),
	})
}

func (c *Connection) handleJoinSession(data JoinSessionData) {
	sess, err := c.server.gameService.JoinSession(data.SessionID, c.GetPlayer())
	if err != nil {
		c.sendError("join_session_failed", err.Error())
		return
	}
	c.sendResponse(MessageTypeSessionJoined, SessionJoinedData{
		SessionID: sess.ID,
		Session:   SessionInfoFrom(sess),
	})
}

func (c *Connection) handleLeaveSession(data LeaveSessionData) {
	if err := c.server.gameService.LeaveSession(data.SessionID, c.GetPlayer()); err != nil {
		c.sendError("leave_session_failed", err.Error())
		return
	}
	c.sendResponse(MessageTypeSessionLeft, SessionLeftData{SessionID: data.SessionID})
}

func (c *Connection) handleStartGame(data StartGameData) {
	if err := c.server.gameService.StartGame(data.SessionID, c.GetPlayer()); err != nil {
		c.sendError("start_game_failed", err.Error())
	}
}

func (c *Connection) handleAction(data ActionData) {
	if err := c.server.gameService.HandleAction(data.SessionID, c.GetPlayer(), data); err != nil {
		c.sendError("action_rejected", err.Error())
	}
}

func (c *Connection) sendResponse(msgType MessageType, data interface{}) {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", msgType, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	c.sendResponse(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
}
