package server

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/inryceu/Poker/internal/game"
	"github.com/inryceu/Poker/internal/session"
)

// GameService wires the session repository and the game engine to the
// WebSocket layer. The server delivers client requests here; engine events
// flow back out through the server's Gateway implementation.
type GameService struct {
	repo     *session.Repository
	engine   *game.Engine
	server   *Server
	defaults SessionDefaults
	logger   *log.Logger
}

// NewGameService creates the service and its engine. The server acts as the
// engine's gateway and connectivity source.
func NewGameService(repo *session.Repository, engine *game.Engine, server *Server, defaults SessionDefaults, logger *log.Logger) *GameService {
	return &GameService{
		repo:     repo,
		engine:   engine,
		server:   server,
		defaults: defaults,
		logger:   logger.WithPrefix("service"),
	}
}

// CreateSession creates a session with the creator as admin, filling unset
// parameters from the configured defaults.
func (gs *GameService) CreateSession(creator string, data CreateSessionData) (*session.Session, error) {
	players := data.Players
	if len(players) == 0 || players[0] != creator {
		players = append([]string{creator}, players...)
	}

	startBalance := data.StartBalance
	if startBalance <= 0 {
		startBalance = gs.defaults.StartBalance
	}
	minBet := data.MinBet
	if minBet <= 0 {
		minBet = gs.defaults.MinBet
	}
	maxBet := data.MaxBet
	if maxBet <= 0 {
		maxBet = gs.defaults.MaxBet
	}
	roundTime := data.RoundTime
	if roundTime <= 0 {
		roundTime = gs.defaults.RoundTime
	}

	sess, err := gs.repo.Create(session.Session{
		StartBalance: startBalance,
		MinBet:       minBet,
		MaxBet:       maxBet,
		SmallBlind:   data.SmallBlind,
		BigBlind:     data.BigBlind,
		RoundTime:    time.Duration(roundTime) * time.Second,
		Players:      players,
	})
	if err != nil {
		return nil, err
	}

	gs.logger.Info("session created",
		"session", sess.ID, "admin", sess.Admin, "players", len(sess.Players))
	return sess, nil
}

// JoinSession adds a player to a session and tells the other members.
func (gs *GameService) JoinSession(sessionID, player string) (*session.Session, error) {
	if gs.defaults.MaxPlayers > 0 {
		sess, err := gs.repo.Get(sessionID)
		if err != nil {
			return nil, err
		}
		if len(sess.Players) >= gs.defaults.MaxPlayers {
			return nil, fmt.Errorf("session %s is full", sessionID)
		}
	}

	sess, err := gs.repo.Join(sessionID, player)
	if err != nil {
		return nil, err
	}

	gs.logger.Info("player joined", "session", sessionID, "player", player)
	gs.notifyRoster(sess, MessageTypePlayerJoined, PlayerJoinedData{
		SessionID: sess.ID,
		Player:    player,
		Players:   sess.Players,
	})
	return sess, nil
}

// LeaveSession removes a player. When the admin leaves, or nobody remains,
// the session is torn down and any round in progress aborted.
func (gs *GameService) LeaveSession(sessionID, player string) error {
	sess, err := gs.repo.Leave(sessionID, player)
	if err != nil {
		return err
	}

	gs.logger.Info("player left", "session", sessionID, "player", player)

	if len(sess.Players) == 0 || sess.Admin == player {
		gs.logger.Info("closing session", "session", sessionID)
		gs.engine.DropSession(sessionID)
		if err := gs.repo.Delete(sessionID); err != nil {
			return err
		}
		for _, p := range sess.Players {
			gs.server.sendTo(p, MessageTypeSessionLeft, SessionLeftData{SessionID: sessionID})
		}
		return nil
	}

	gs.notifyRoster(sess, MessageTypePlayerLeft, PlayerLeftData{
		SessionID: sess.ID,
		Player:    player,
		Players:   sess.Players,
	})
	return nil
}

// StartGame begins a new round. Only the session admin may start one.
func (gs *GameService) StartGame(sessionID, player string) error {
	sess, err := gs.repo.Get(sessionID)
	if err != nil {
		return err
	}
	if sess.Admin != player {
		return fmt.Errorf("only the session admin can start a round")
	}
	return gs.engine.StartRound(sessionID)
}

// HandleAction parses and forwards a player's betting action.
func (gs *GameService) HandleAction(sessionID, player string, data ActionData) error {
	action, err := game.ParseAction(data.Action)
	if err != nil {
		return err
	}
	return gs.engine.HandleAction(sessionID, player, action, data.Amount)
}

// DisconnectPlayer is called by the server when a connection drops. The
// engine folds the player when their turn comes; the roster is untouched so
// they can reconnect and resume.
func (gs *GameService) DisconnectPlayer(player string) {
	gs.logger.Debug("player disconnected", "player", player)
}

func (gs *GameService) notifyRoster(sess *session.Session, msgType MessageType, data interface{}) {
	for _, p := range sess.Players {
		gs.server.sendTo(p, msgType, data)
	}
}

// SessionInfoFrom converts a session to its client-facing view.
func SessionInfoFrom(sess *session.Session) *SessionInfo {
	return &SessionInfo{
		ID:           sess.ID,
		Admin:        sess.Admin,
		Players:      sess.Players,
		StartBalance: sess.StartBalance,
		MinBet:       sess.MinBet,
		MaxBet:       sess.MaxBet,
		SmallBlind:   sess.EffectiveSmallBlind(),
		BigBlind:     sess.EffectiveBigBlind(),
		RoundTime:    int(sess.RoundTime / time.Second),
	}
}
