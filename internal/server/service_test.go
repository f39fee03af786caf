package server

import (
	"encoding/json"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inryceu/Poker/internal/game"
	"github.com/inryceu/Poker/internal/session"
)

func newTestService(t *testing.T) (*GameService, *session.Repository) {
	t.Helper()

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	repo := session.NewRepository()
	srv := NewServer("127.0.0.1:0", logger)
	engine := game.NewEngine(repo, srv, srv, quartz.NewMock(t), rand.New(rand.NewSource(1)), logger)
	gs := NewGameService(repo, engine, srv, DefaultServerConfig().Sessions, logger)
	srv.SetGameService(gs)
	return gs, repo
}

func TestCreateSessionAppliesDefaults(t *testing.T) {
	gs, _ := newTestService(t)

	sess, err := gs.CreateSession("alice", CreateSessionData{})
	require.NoError(t, err)

	assert.Equal(t, "alice", sess.Admin)
	assert.Equal(t, []string{"alice"}, sess.Players)
	assert.Equal(t, 1000, sess.StartBalance)
	assert.Equal(t, 10, sess.MinBet)
	assert.Equal(t, 30*time.Second, sess.RoundTime)
}

func TestCreateSessionCreatorBecomesAdmin(t *testing.T) {
	gs, _ := newTestService(t)

	sess, err := gs.CreateSession("alice", CreateSessionData{
		Players:      []string{"bob", "carol"},
		StartBalance: 500,
		MinBet:       5,
		RoundTime:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", sess.Admin)
	assert.Equal(t, []string{"alice", "bob", "carol"}, sess.Players)
	assert.Equal(t, 500, sess.StartBalance)
	assert.Equal(t, 10*time.Second, sess.RoundTime)
}

func TestJoinSessionEnforcesCapacity(t *testing.T) {
	gs, _ := newTestService(t)
	gs.defaults.MaxPlayers = 2

	sess, err := gs.CreateSession("alice", CreateSessionData{})
	require.NoError(t, err)

	_, err = gs.JoinSession(sess.ID, "bob")
	require.NoError(t, err)

	_, err = gs.JoinSession(sess.ID, "carol")
	assert.ErrorContains(t, err, "full")
}

func TestStartGameRequiresAdmin(t *testing.T) {
	gs, _ := newTestService(t)

	sess, err := gs.CreateSession("alice", CreateSessionData{})
	require.NoError(t, err)
	_, err = gs.JoinSession(sess.ID, "bob")
	require.NoError(t, err)

	err = gs.StartGame(sess.ID, "bob")
	assert.ErrorContains(t, err, "admin")

	require.NoError(t, gs.StartGame(sess.ID, "alice"))
}

func TestAdminLeavingClosesSession(t *testing.T) {
	gs, repo := newTestService(t)

	sess, err := gs.CreateSession("alice", CreateSessionData{})
	require.NoError(t, err)
	_, err = gs.JoinSession(sess.ID, "bob")
	require.NoError(t, err)

	require.NoError(t, gs.LeaveSession(sess.ID, "alice"))

	_, err = repo.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRegularPlayerLeavingKeepsSession(t *testing.T) {
	gs, repo := newTestService(t)

	sess, err := gs.CreateSession("alice", CreateSessionData{})
	require.NoError(t, err)
	_, err = gs.JoinSession(sess.ID, "bob")
	require.NoError(t, err)

	require.NoError(t, gs.LeaveSession(sess.ID, "bob"))

	got, err := repo.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, got.Players)
}

func TestHandleActionRejectsUnknownAction(t *testing.T) {
	gs, _ := newTestService(t)

	sess, err := gs.CreateSession("alice", CreateSessionData{})
	require.NoError(t, err)

	err = gs.HandleAction(sess.ID, "alice", ActionData{Action: "jam"})
	assert.ErrorIs(t, err, game.ErrUnknownAction)
}

func TestMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(MessageTypeAction, ActionData{
		SessionID: "s1",
		Action:    "raise",
		Amount:    40,
	})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeAction, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	encoded, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, MessageTypeAction, decoded.Type)

	var data ActionData
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	assert.Equal(t, "raise", data.Action)
	assert.Equal(t, 40, data.Amount)
}
