package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/inryceu/Poker/internal/deck"
	"github.com/inryceu/Poker/internal/evaluator"
)

// defaultTurnTimeout applies when a session carries no round time of its own.
const defaultTurnTimeout = 30 * time.Second

// Engine runs the betting state machine for every session. Each session gets
// its own table with its own lock; the engine-level mutex only guards the
// table map itself.
type Engine struct {
	mu     sync.Mutex
	tables map[string]*table

	store   SessionStore
	gateway Gateway
	conns   Connectivity
	clock   quartz.Clock
	logger  *log.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine builds an engine. A nil clock falls back to the real clock and a
// nil rng to a time-seeded one; tests pass quartz.NewMock and a fixed seed.
func NewEngine(store SessionStore, gateway Gateway, conns Connectivity, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Engine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		tables:  make(map[string]*table),
		store:   store,
		gateway: gateway,
		conns:   conns,
		clock:   clock,
		logger:  logger.WithPrefix("engine"),
		rng:     rng,
	}
}

// table returns the session's table, creating it on first use.
func (e *Engine) table(sessionID string) *table {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tables[sessionID]
	if !ok {
		t = &table{stacks: make(map[string]int)}
		e.tables[sessionID] = t
	}
	return t
}

func (e *Engine) lookup(sessionID string) *table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tables[sessionID]
}

// DropSession discards a session's table, aborting any round in progress.
func (e *Engine) DropSession(sessionID string) {
	e.mu.Lock()
	t := e.tables[sessionID]
	delete(e.tables, sessionID)
	e.mu.Unlock()
	if t != nil {
		t.mu.Lock()
		t.stopTimer()
		t.turnSeq++
		t.round = nil
		t.mu.Unlock()
	}
}

// Stacks returns a copy of the session's stacks, or nil if the session has
// never played a round.
func (e *Engine) Stacks(sessionID string) map[string]int {
	t := e.lookup(sessionID)
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyStacks(t.stacks)
}

// roundRNG derives an independent generator for one round's shuffle so the
// shared source is never touched outside the rng mutex.
func (e *Engine) roundRNG() *rand.Rand {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return rand.New(rand.NewSource(e.rng.Int63()))
}

// StartRound deals a new hand for the session: rotates the blinds, posts
// them (capped at the poster's stack), deals hole cards and prompts the
// first player to act. Players whose stack hit zero sit out; newcomers are
// credited the session's starting balance.
func (e *Engine) StartRound(sessionID string) error {
	sess, err := e.store.Get(sessionID)
	if err != nil {
		return err
	}

	t := e.table(sessionID)
	t.mu.Lock()
	defer t.mu.Unlock()

	active := make([]string, 0, len(sess.Players))
	for _, p := range sess.Players {
		stack, seen := t.stacks[p]
		if !seen || stack > 0 {
			active = append(active, p)
		}
	}
	if len(active) < 2 {
		return fmt.Errorf("%w: %d eligible", ErrInsufficientPlayers, len(active))
	}

	// Shuffle and deal before touching any state, so a failed deal leaves
	// stacks and blind positions exactly as they were.
	d := deck.New(e.roundRNG())
	hole, err := d.DealToPlayers(active)
	if err != nil {
		return err
	}

	for _, p := range active {
		if _, seen := t.stacks[p]; !seen {
			t.stacks[p] = sess.StartBalance
		}
	}

	sbPos := (t.sbPos + 1) % len(active)
	bbPos := (sbPos + 2) % len(active)

	timeout := sess.RoundTime
	if timeout <= 0 {
		timeout = defaultTurnTimeout
	}

	round := &Round{
		Players:            active,
		Bets:               make(map[string]int, len(active)),
		Phase:              Preflop,
		FoldedPlayers:      make(map[string]struct{}),
		AllInPlayers:       make(map[string]struct{}),
		PlayersActed:       make(map[string]struct{}),
		HoleCards:          hole,
		Deck:               d,
		TurnTimeout:        timeout,
		CurrentPlayerIndex: (bbPos + 1) % len(active),
	}
	for _, p := range active {
		round.Bets[p] = 0
	}

	smallBlind := sess.EffectiveSmallBlind()
	bigBlind := sess.EffectiveBigBlind()

	sbPlayer := active[sbPos]
	sbPosted := min(smallBlind, t.stacks[sbPlayer])
	t.stacks[sbPlayer] -= sbPosted
	round.Bets[sbPlayer] = sbPosted
	round.Pot += sbPosted
	if t.stacks[sbPlayer] == 0 {
		round.AllInPlayers[sbPlayer] = struct{}{}
	}

	bbPlayer := active[bbPos]
	bbPosted := min(bigBlind, t.stacks[bbPlayer])
	t.stacks[bbPlayer] -= bbPosted
	round.Bets[bbPlayer] = bbPosted
	round.Pot += bbPosted
	if t.stacks[bbPlayer] == 0 {
		round.AllInPlayers[bbPlayer] = struct{}{}
	}

	// The call target is what the big blind actually posted, which can be
	// short when the poster could not cover it.
	round.CurrentBet = bbPosted

	t.sbPos, t.bbPos = sbPos, bbPos
	t.stopTimer()
	t.turnSeq++
	t.round = round

	e.logger.Info("round started",
		"session", sessionID,
		"players", len(active),
		"smallBlind", sbPlayer,
		"bigBlind", bbPlayer,
		"pot", round.Pot)

	for _, p := range active {
		if e.conns.IsConnected(p) {
			e.gateway.Send(p, HoleCardsDealt{
				SessionID: sessionID,
				Cards:     append([]deck.Card(nil), hole[p]...),
			})
		}
	}

	e.broadcast(t, RoundStarted{
		SessionID:  sessionID,
		Players:    append([]string(nil), active...),
		Stacks:     copyStacks(t.stacks),
		Phase:      round.Phase.String(),
		Pot:        round.Pot,
		CurrentBet: round.CurrentBet,
		SmallBlind: BlindPost{Player: sbPlayer, Amount: sbPosted},
		BigBlind:   BlindPost{Player: bbPlayer, Amount: bbPosted},
	})

	e.nextTurn(t, sessionID)
	return nil
}

// HandleAction applies one player's betting action. Validation happens
// before any mutation: a rejected action leaves the round, including its
// pending turn timer, untouched.
func (e *Engine) HandleAction(sessionID, player string, action Action, amount int) error {
	t := e.lookup(sessionID)
	if t == nil {
		return fmt.Errorf("%w: session %s", ErrNoActiveRound, sessionID)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	round := t.round
	if round == nil {
		return fmt.Errorf("%w: session %s", ErrNoActiveRound, sessionID)
	}
	if !round.contains(player) {
		return fmt.Errorf("%w: %s", ErrPlayerNotInRound, player)
	}
	if round.Players[round.CurrentPlayerIndex] != player {
		return fmt.Errorf("%w: %s", ErrNotPlayerTurn, player)
	}
	if !round.canAct(player) {
		return fmt.Errorf("%w: %s", ErrPlayerCannotAct, player)
	}
	if err := e.validateAction(t, player, action, amount); err != nil {
		return err
	}

	// Invalidate the pending timeout before mutating; a timer callback
	// already blocked on the lock will see the sequence change and bail.
	t.turnSeq++
	t.stopTimer()

	e.applyAction(t, sessionID, player, action, amount)
	return nil
}

func (e *Engine) validateAction(t *table, player string, action Action, amount int) error {
	round := t.round
	stack := t.stacks[player]
	bet := round.Bets[player]
	callAmount := round.CurrentBet - bet

	switch action {
	case Fold, Call:
		return nil
	case Check:
		if callAmount != 0 {
			return fmt.Errorf("%w: %d to call", ErrInvalidCheck, callAmount)
		}
		return nil
	case Raise:
		if amount <= 0 {
			return ErrInvalidRaiseAmount
		}
		minRaise := round.CurrentBet*2 - bet
		totalBet := round.CurrentBet + amount
		toPay := totalBet - bet
		// A raise that puts the whole stack in is always allowed, even
		// below the minimum.
		if toPay < stack && totalBet < minRaise {
			return raiseTooSmallError(minRaise - bet)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownAction, action)
	}
}

// applyAction mutates the round for an already-validated action, then
// advances the turn, the phase, or the settlement. Callers hold the table
// lock and have cancelled the turn timer.
func (e *Engine) applyAction(t *table, sessionID, player string, action Action, amount int) {
	round := t.round
	bet := round.Bets[player]

	switch action {
	case Fold:
		round.FoldedPlayers[player] = struct{}{}

	case Check:
		// nothing moves

	case Call:
		pay := round.CurrentBet - bet
		if pay > t.stacks[player] {
			pay = t.stacks[player]
		}
		t.stacks[player] -= pay
		round.Bets[player] += pay
		round.Pot += pay
		if t.stacks[player] == 0 {
			round.AllInPlayers[player] = struct{}{}
		}

	case Raise:
		totalBet := round.CurrentBet + amount
		toPay := totalBet - bet
		if toPay > t.stacks[player] {
			// Short all-in: the call target drops to what the raiser
			// can actually cover.
			stack := t.stacks[player]
			round.CurrentBet = bet + stack
			round.Bets[player] += stack
			round.Pot += stack
			t.stacks[player] = 0
			round.AllInPlayers[player] = struct{}{}
		} else {
			round.CurrentBet = totalBet
			round.Bets[player] = totalBet
			t.stacks[player] -= toPay
			round.Pot += toPay
			if t.stacks[player] == 0 {
				round.AllInPlayers[player] = struct{}{}
			}
		}
		round.LastRaiser = player
		// Everyone else must respond to the new price.
		round.PlayersActed = make(map[string]struct{})
	}

	round.PlayersActed[player] = struct{}{}

	e.logger.Debug("action applied",
		"session", sessionID,
		"player", player,
		"action", action,
		"amount", amount,
		"pot", round.Pot)

	e.broadcast(t, ActionApplied{
		SessionID:  sessionID,
		Player:     player,
		Action:     action.String(),
		Amount:     amount,
		Pot:        round.Pot,
		CurrentBet: round.CurrentBet,
		Stacks:     copyStacks(t.stacks),
		Bets:       copyStacks(round.Bets),
	})

	if len(round.activePlayers()) == 1 {
		e.settleLastStanding(t, sessionID)
		return
	}

	round.CurrentPlayerIndex = (round.CurrentPlayerIndex + 1) % len(round.Players)

	if e.isBettingRoundComplete(round) {
		e.proceedToNextPhase(t, sessionID)
	} else {
		e.nextTurn(t, sessionID)
	}
}

// nextTurn finds the next player who can act, prompts them and arms the
// timeout. Disconnected players are folded on the spot. If nobody can act
// the betting round is over and play moves to the next phase.
func (e *Engine) nextTurn(t *table, sessionID string) {
	t.stopTimer()
	round := t.round
	if round == nil {
		return
	}

	if len(round.activePlayers()) <= 1 {
		e.settleLastStanding(t, sessionID)
		return
	}

	for range round.Players {
		current := round.Players[round.CurrentPlayerIndex]
		if !round.canAct(current) {
			round.CurrentPlayerIndex = (round.CurrentPlayerIndex + 1) % len(round.Players)
			continue
		}

		if !e.conns.IsConnected(current) {
			e.logger.Warn("player disconnected, folding",
				"session", sessionID, "player", current)
			t.turnSeq++
			e.applyAction(t, sessionID, current, Fold, 0)
			return
		}

		e.gateway.Send(current, TurnPrompt{
			SessionID:        sessionID,
			CurrentBet:       round.CurrentBet,
			YourBet:          round.Bets[current],
			Pot:              round.Pot,
			Stack:            t.stacks[current],
			Phase:            round.Phase.String(),
			AvailableActions: e.availableActions(t, current),
			CommunityCards:   append([]deck.Card(nil), round.CommunityCards...),
			TimeoutSeconds:   int(round.TurnTimeout / time.Second),
		})

		t.turnSeq++
		seq := t.turnSeq
		player := current
		t.timer = e.clock.AfterFunc(round.TurnTimeout, func() {
			e.timeoutFold(sessionID, player, seq)
		})
		return
	}

	e.proceedToNextPhase(t, sessionID)
}

// timeoutFold is the turn timer callback. The sequence check under the lock
// makes it a no-op when the player's action beat the timer.
func (e *Engine) timeoutFold(sessionID, player string, seq uint64) {
	t := e.lookup(sessionID)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round == nil || t.turnSeq != seq {
		return
	}
	e.logger.Warn("turn timed out, folding",
		"session", sessionID, "player", player)
	t.turnSeq++
	t.timer = nil
	e.applyAction(t, sessionID, player, Fold, 0)
}

// availableActions lists what the player may legally do right now.
func (e *Engine) availableActions(t *table, player string) []string {
	round := t.round
	stack := t.stacks[player]
	callAmount := round.CurrentBet - round.Bets[player]

	actions := []string{Fold.String()}
	if callAmount == 0 {
		actions = append(actions, Check.String())
	} else if stack > 0 {
		actions = append(actions, Call.String())
	}
	if stack > callAmount {
		actions = append(actions, Raise.String())
	}
	return actions
}

// isBettingRoundComplete reports whether every non-folded player has either
// matched the current bet after acting since the last raise, or is all-in.
func (e *Engine) isBettingRoundComplete(round *Round) bool {
	active := round.activePlayers()
	if len(active) <= 1 {
		return true
	}
	for _, p := range active {
		if round.isAllIn(p) {
			continue
		}
		if _, acted := round.PlayersActed[p]; !acted {
			return false
		}
		if round.Bets[p] < round.CurrentBet {
			return false
		}
	}
	return true
}

// proceedToNextPhase deals the next street, resets the per-phase betting
// state and hands the action to the first eligible player after the small
// blind. After the river it runs the showdown instead.
func (e *Engine) proceedToNextPhase(t *table, sessionID string) {
	round := t.round

	if round.Phase >= River {
		e.showdown(t, sessionID)
		return
	}

	n := 1
	if round.Phase == Preflop {
		n = 3
	}
	cards, err := round.Deck.Deal(n)
	if err != nil {
		// A standard deck cannot run out mid-hand; settle what we have.
		e.logger.Error("community deal failed",
			"session", sessionID, "error", err)
		e.showdown(t, sessionID)
		return
	}

	round.Phase++
	round.CommunityCards = append(round.CommunityCards, cards...)
	for _, p := range round.Players {
		round.Bets[p] = 0
	}
	round.CurrentBet = 0
	round.LastRaiser = ""
	round.PlayersActed = make(map[string]struct{})
	round.CurrentPlayerIndex = e.firstToActPostflop(t)

	e.logger.Info("phase advanced",
		"session", sessionID,
		"phase", round.Phase,
		"community", len(round.CommunityCards),
		"pot", round.Pot)

	e.broadcast(t, PhaseChanged{
		SessionID:      sessionID,
		Phase:          round.Phase.String(),
		CommunityCards: append([]deck.Card(nil), round.CommunityCards...),
		Pot:            round.Pot,
		CurrentBet:     round.CurrentBet,
	})

	e.nextTurn(t, sessionID)
}

// firstToActPostflop scans from the small blind seat for the first player
// still able to act.
func (e *Engine) firstToActPostflop(t *table) int {
	round := t.round
	for i := range round.Players {
		idx := (t.sbPos + i) % len(round.Players)
		if round.canAct(round.Players[idx]) {
			return idx
		}
	}
	return 0
}

// settleLastStanding pays the whole pot to the only non-folded player
// without revealing any cards.
func (e *Engine) settleLastStanding(t *table, sessionID string) {
	round := t.round
	active := round.activePlayers()
	if len(active) != 1 {
		e.discardRound(t)
		return
	}

	winner := active[0]
	t.stacks[winner] += round.Pot

	e.logger.Info("round won uncontested",
		"session", sessionID, "winner", winner, "pot", round.Pot)

	e.broadcast(t, RoundSettled{
		SessionID:      sessionID,
		Winners:        []WinnerResult{{Player: winner, Amount: round.Pot}},
		Pot:            round.Pot,
		Stacks:         copyStacks(t.stacks),
		CommunityCards: append([]deck.Card(nil), round.CommunityCards...),
		SingleWinner:   true,
	})
	e.discardRound(t)
}

// showdown evaluates every surviving hand, splits the pot among the best and
// credits the winners. If evaluation blows up the pot is split equally so no
// chips are ever lost.
func (e *Engine) showdown(t *table, sessionID string) {
	round := t.round
	round.Phase = Showdown
	active := round.activePlayers()

	if len(active) <= 1 {
		e.settleLastStanding(t, sessionID)
		return
	}

	entries := make([]evaluator.PlayerHand, len(active))
	for i, p := range active {
		entries[i] = evaluator.PlayerHand{PlayerID: p, HoleCards: round.HoleCards[p]}
	}

	winners, err := e.safeFindWinners(entries, round.CommunityCards)
	if err != nil || len(winners) == 0 {
		e.logger.Error("hand evaluation failed, splitting pot equally",
			"session", sessionID, "error", err)
		e.settleEqualSplit(t, sessionID, active)
		return
	}

	payouts := evaluator.DistributePot(winners, round.Pot)
	results := make([]WinnerResult, len(winners))
	for i, w := range winners {
		t.stacks[w.PlayerID] += payouts[w.PlayerID]
		results[i] = WinnerResult{
			Player: w.PlayerID,
			Amount: payouts[w.PlayerID],
			Hand:   w.Hand.Description(),
		}
	}

	e.logger.Info("round settled",
		"session", sessionID,
		"pot", round.Pot,
		"winners", len(winners),
		"hand", winners[0].Hand.Description())

	e.broadcast(t, RoundSettled{
		SessionID:      sessionID,
		Winners:        results,
		Pot:            round.Pot,
		Stacks:         copyStacks(t.stacks),
		CommunityCards: append([]deck.Card(nil), round.CommunityCards...),
		HoleCards:      copyHoleCards(round),
	})
	e.discardRound(t)
}

// safeFindWinners shields the settlement path from evaluator panics.
func (e *Engine) safeFindWinners(entries []evaluator.PlayerHand, community []deck.Card) (winners []evaluator.Winner, err error) {
	defer func() {
		if r := recover(); r != nil {
			winners = nil
			err = fmt.Errorf("evaluator panic: %v", r)
		}
	}()
	return evaluator.FindWinners(entries, community)
}

// settleEqualSplit is the fallback when hands cannot be ranked: every
// surviving player gets an equal share, remainder chips going one each to
// the earliest seats.
func (e *Engine) settleEqualSplit(t *table, sessionID string, active []string) {
	round := t.round
	share := round.Pot / len(active)
	remainder := round.Pot % len(active)

	results := make([]WinnerResult, len(active))
	for i, p := range active {
		amount := share
		if i < remainder {
			amount++
		}
		t.stacks[p] += amount
		results[i] = WinnerResult{Player: p, Amount: amount}
	}

	e.broadcast(t, RoundSettled{
		SessionID:      sessionID,
		Winners:        results,
		Pot:            round.Pot,
		Stacks:         copyStacks(t.stacks),
		CommunityCards: append([]deck.Card(nil), round.CommunityCards...),
		HoleCards:      copyHoleCards(round),
		SoftError:      "hand evaluation failed, pot split equally",
	})
	e.discardRound(t)
}

// discardRound drops the finished round and invalidates any timer still in
// flight. Stacks and blind positions survive for the next round.
func (e *Engine) discardRound(t *table) {
	t.stopTimer()
	t.turnSeq++
	t.round = nil
}

// broadcast sends an event to every connected player seated in the round.
func (e *Engine) broadcast(t *table, event Event) {
	for _, p := range t.round.Players {
		if e.conns.IsConnected(p) {
			e.gateway.Send(p, event)
		}
	}
}

func copyStacks(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func copyHoleCards(r *Round) map[string][]deck.Card {
	out := make(map[string][]deck.Card, len(r.HoleCards))
	for p, cards := range r.HoleCards {
		if r.isFolded(p) {
			continue
		}
		out[p] = append([]deck.Card(nil), cards...)
	}
	return out
}
