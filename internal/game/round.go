package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/inryceu/Poker/internal/deck"
)

// Round is the mutable aggregate for one hand of poker. All access goes
// through the owning table's mutex.
type Round struct {
	Players            []string
	Bets               map[string]int
	Pot                int
	CurrentBet         int
	Phase              Phase
	CurrentPlayerIndex int
	FoldedPlayers      map[string]struct{}
	AllInPlayers       map[string]struct{}
	PlayersActed       map[string]struct{}
	LastRaiser         string
	CommunityCards     []deck.Card
	HoleCards          map[string][]deck.Card
	Deck               *deck.Deck
	TurnTimeout        time.Duration
}

func (r *Round) contains(player string) bool {
	for _, p := range r.Players {
		if p == player {
			return true
		}
	}
	return false
}

func (r *Round) isFolded(player string) bool {
	_, ok := r.FoldedPlayers[player]
	return ok
}

func (r *Round) isAllIn(player string) bool {
	_, ok := r.AllInPlayers[player]
	return ok
}

// canAct reports whether a player can still take betting actions
func (r *Round) canAct(player string) bool {
	return !r.isFolded(player) && !r.isAllIn(player)
}

// activePlayers returns the non-folded players in seat order
func (r *Round) activePlayers() []string {
	active := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		if !r.isFolded(p) {
			active = append(active, p)
		}
	}
	return active
}

// table is one session's slot in the engine: the round in progress (nil
// between rounds), the stacks that persist across rounds, and the blind
// positions that rotate between them. Each table has its own mutex so
// sessions never contend with each other.
type table struct {
	mu      sync.Mutex
	stacks  map[string]int
	round   *Round
	timer   *quartz.Timer
	turnSeq uint64
	sbPos   int
	bbPos   int
}

// stopTimer cancels the pending turn timer, if any. Callers must hold mu.
func (t *table) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
