package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inryceu/Poker/internal/deck"
)

// riverRound builds a table at the end of river betting with known cards so
// showdown outcomes are deterministic.
func riverRound(f *fixture, pot int, hole map[string][]deck.Card, community []deck.Card, stacks map[string]int) *table {
	tbl := f.engine.table(f.sessID)

	// seat order must be stable for remainder-chip assertions
	players := make([]string, 0, len(hole))
	for _, p := range []string{"alice", "bob", "carol", "dave", "erin"} {
		if _, ok := hole[p]; ok {
			players = append(players, p)
		}
	}

	tbl.stacks = stacks
	tbl.round = &Round{
		Players:        players,
		Bets:           make(map[string]int),
		Pot:            pot,
		Phase:          River,
		FoldedPlayers:  make(map[string]struct{}),
		AllInPlayers:   make(map[string]struct{}),
		PlayersActed:   make(map[string]struct{}),
		HoleCards:      hole,
		CommunityCards: community,
	}
	return tbl
}

func TestShowdownBestHandTakesPot(t *testing.T) {
	f := newFixture(t, fourPlayers())

	community := []deck.Card{
		deck.NewCard(deck.Clubs, deck.Two),
		deck.NewCard(deck.Diamonds, deck.Five),
		deck.NewCard(deck.Hearts, deck.Nine),
		deck.NewCard(deck.Spades, deck.Jack),
		deck.NewCard(deck.Clubs, deck.Three),
	}
	tbl := riverRound(f, 100, map[string][]deck.Card{
		"alice": {deck.NewCard(deck.Spades, deck.Ace), deck.NewCard(deck.Diamonds, deck.Ace)},
		"bob":   {deck.NewCard(deck.Spades, deck.King), deck.NewCard(deck.Diamonds, deck.King)},
	}, community, map[string]int{"alice": 0, "bob": 0})

	tbl.mu.Lock()
	f.engine.showdown(tbl, f.sessID)
	tbl.mu.Unlock()

	stacks := f.engine.Stacks(f.sessID)
	assert.Equal(t, 100, stacks["alice"], "pair of aces beats pair of kings")
	assert.Equal(t, 0, stacks["bob"])

	settled := f.gw.lastOfType("alice", "round_settled").(RoundSettled)
	require.Len(t, settled.Winners, 1)
	assert.Equal(t, "alice", settled.Winners[0].Player)
	assert.Equal(t, "Pair", settled.Winners[0].Hand)
	assert.Len(t, settled.HoleCards, 2, "showdown reveals surviving hole cards")
}

func TestShowdownSplitPotOddChip(t *testing.T) {
	f := newFixture(t, fourPlayers())

	// Board plays: both survivors tie and split, the odd chip going to the
	// earlier seat
	community := []deck.Card{
		deck.NewCard(deck.Clubs, deck.Ten),
		deck.NewCard(deck.Clubs, deck.Jack),
		deck.NewCard(deck.Clubs, deck.Queen),
		deck.NewCard(deck.Clubs, deck.King),
		deck.NewCard(deck.Clubs, deck.Ace),
	}
	tbl := riverRound(f, 101, map[string][]deck.Card{
		"alice": {deck.NewCard(deck.Spades, deck.Two), deck.NewCard(deck.Hearts, deck.Three)},
		"bob":   {deck.NewCard(deck.Diamonds, deck.Two), deck.NewCard(deck.Hearts, deck.Four)},
	}, community, map[string]int{"alice": 0, "bob": 0})

	tbl.mu.Lock()
	f.engine.showdown(tbl, f.sessID)
	tbl.mu.Unlock()

	stacks := f.engine.Stacks(f.sessID)
	assert.Equal(t, 51, stacks["alice"])
	assert.Equal(t, 50, stacks["bob"])
}

func TestShowdownFoldedHandsAreNotRevealed(t *testing.T) {
	f := newFixture(t, fourPlayers())

	community := []deck.Card{
		deck.NewCard(deck.Clubs, deck.Two),
		deck.NewCard(deck.Diamonds, deck.Five),
		deck.NewCard(deck.Hearts, deck.Nine),
		deck.NewCard(deck.Spades, deck.Jack),
		deck.NewCard(deck.Clubs, deck.Three),
	}
	tbl := riverRound(f, 60, map[string][]deck.Card{
		"alice": {deck.NewCard(deck.Spades, deck.Ace), deck.NewCard(deck.Diamonds, deck.Ace)},
		"bob":   {deck.NewCard(deck.Spades, deck.King), deck.NewCard(deck.Diamonds, deck.King)},
		"carol": {deck.NewCard(deck.Spades, deck.Queen), deck.NewCard(deck.Diamonds, deck.Queen)},
	}, community, map[string]int{"alice": 0, "bob": 0, "carol": 0})
	tbl.round.FoldedPlayers["carol"] = struct{}{}

	tbl.mu.Lock()
	f.engine.showdown(tbl, f.sessID)
	tbl.mu.Unlock()

	settled := f.gw.lastOfType("alice", "round_settled").(RoundSettled)
	assert.Contains(t, settled.HoleCards, "alice")
	assert.Contains(t, settled.HoleCards, "bob")
	assert.NotContains(t, settled.HoleCards, "carol")
}

func TestEqualSplitFallbackConservesChips(t *testing.T) {
	f := newFixture(t, fourPlayers())

	tbl := riverRound(f, 101, map[string][]deck.Card{
		"alice": nil,
		"bob":   nil,
		"carol": nil,
	}, nil, map[string]int{"alice": 0, "bob": 0, "carol": 0})

	tbl.mu.Lock()
	f.engine.settleEqualSplit(tbl, f.sessID, []string{"alice", "bob", "carol"})
	tbl.mu.Unlock()

	stacks := f.engine.Stacks(f.sessID)
	assert.Equal(t, 34, stacks["alice"], "remainder chips go to the earliest seats")
	assert.Equal(t, 34, stacks["bob"])
	assert.Equal(t, 33, stacks["carol"])

	settled := f.gw.lastOfType("alice", "round_settled").(RoundSettled)
	assert.NotEmpty(t, settled.SoftError)
	require.Len(t, settled.Winners, 3)

	total := 0
	for _, w := range settled.Winners {
		total += w.Amount
	}
	assert.Equal(t, 101, total)
}
