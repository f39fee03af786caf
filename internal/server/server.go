package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/inryceu/Poker/internal/game"
)

// Server is the WebSocket front door. It tracks connections, maps
// authenticated player names to them, and implements game.Gateway and
// game.Connectivity so the engine can reach players without knowing about
// sockets.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	players     map[string]*Connection
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server
	gameService *GameService
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		players:     make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetGameService wires the service in after construction; the service needs
// the server first.
func (s *Server) SetGameService(gs *GameService) {
	s.gameService = gs
}

// Start starts the WebSocket server and blocks until Stop is called or the
// listener fails.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				playerID := conn.GetPlayer()
				if playerID != "" && s.players[playerID] == conn {
					delete(s.players, playerID)
				}
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			if playerID := conn.GetPlayer(); playerID != "" && s.gameService != nil {
				s.gameService.DisconnectPlayer(playerID)
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register <- client
	client.Start()
}

// handleHealth is a liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// bindPlayer maps an authenticated player name to its connection. A second
// login with the same name bumps the old connection.
func (s *Server) bindPlayer(playerID string, conn *Connection) {
	s.mu.Lock()
	old := s.players[playerID]
	s.players[playerID] = conn
	s.mu.Unlock()

	if old != nil && old != conn {
		s.logger.Warn("Player reconnected, dropping old connection", "player", playerID)
		_ = old.Close()
	}
}

func (s *Server) connectionFor(playerID string) *Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[playerID]
}

// Send implements game.Gateway: it delivers an engine event to one player.
func (s *Server) Send(playerID string, event game.Event) {
	conn := s.connectionFor(playerID)
	if conn == nil {
		return
	}
	msg, err := NewMessage(MessageType(event.EventType()), event)
	if err != nil {
		s.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}
	_ = conn.SendMessage(msg)
}

// IsConnected implements game.Connectivity.
func (s *Server) IsConnected(playerID string) bool {
	return s.connectionFor(playerID) != nil
}

// sendTo delivers a protocol message to a player, silently dropping it when
// they are not connected.
func (s *Server) sendTo(playerID string, msgType MessageType, data interface{}) {
	conn := s.connectionFor(playerID)
	if conn == nil {
		return
	}
	msg, err := NewMessage(msgType, data)
	if err != nil {
		s.logger.Error("Failed to encode message", "type", msgType, "error", err)
		return
	}
	_ = conn.SendMessage(msg)
}
