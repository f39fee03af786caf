package evaluator

import (
	"errors"
	"testing"

	"github.com/inryceu/Poker/internal/deck"
)

func c(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

func TestEvaluateRankings(t *testing.T) {
	tests := []struct {
		name      string
		hole      []deck.Card
		community []deck.Card
		want      Ranking
	}{
		{
			name:      "royal flush",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Spades, deck.King)},
			community: []deck.Card{c(deck.Spades, deck.Queen), c(deck.Spades, deck.Jack), c(deck.Spades, deck.Ten), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Three)},
			want:      RoyalFlush,
		},
		{
			name:      "straight flush",
			hole:      []deck.Card{c(deck.Hearts, deck.Nine), c(deck.Hearts, deck.Eight)},
			community: []deck.Card{c(deck.Hearts, deck.Seven), c(deck.Hearts, deck.Six), c(deck.Hearts, deck.Five), c(deck.Spades, deck.Ace), c(deck.Clubs, deck.Ace)},
			want:      StraightFlush,
		},
		{
			name:      "four of a kind",
			hole:      []deck.Card{c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Nine)},
			community: []deck.Card{c(deck.Diamonds, deck.Nine), c(deck.Clubs, deck.Nine), c(deck.Hearts, deck.Five), c(deck.Spades, deck.Two), c(deck.Clubs, deck.Jack)},
			want:      FourOfAKind,
		},
		{
			name:      "full house",
			hole:      []deck.Card{c(deck.Spades, deck.Ten), c(deck.Hearts, deck.Ten)},
			community: []deck.Card{c(deck.Diamonds, deck.Ten), c(deck.Clubs, deck.Four), c(deck.Hearts, deck.Four), c(deck.Spades, deck.Two), c(deck.Clubs, deck.Seven)},
			want:      FullHouse,
		},
		{
			name:      "flush",
			hole:      []deck.Card{c(deck.Clubs, deck.Ace), c(deck.Clubs, deck.Nine)},
			community: []deck.Card{c(deck.Clubs, deck.Five), c(deck.Clubs, deck.Three), c(deck.Clubs, deck.Two), c(deck.Hearts, deck.King), c(deck.Spades, deck.King)},
			want:      Flush,
		},
		{
			name:      "straight",
			hole:      []deck.Card{c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Eight)},
			community: []deck.Card{c(deck.Diamonds, deck.Seven), c(deck.Clubs, deck.Six), c(deck.Hearts, deck.Five), c(deck.Spades, deck.King), c(deck.Clubs, deck.King)},
			want:      Straight,
		},
		{
			name:      "wheel straight",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Two)},
			community: []deck.Card{c(deck.Diamonds, deck.Three), c(deck.Clubs, deck.Four), c(deck.Hearts, deck.Five), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Jack)},
			want:      Straight,
		},
		{
			name:      "three of a kind",
			hole:      []deck.Card{c(deck.Spades, deck.Queen), c(deck.Hearts, deck.Queen)},
			community: []deck.Card{c(deck.Diamonds, deck.Queen), c(deck.Clubs, deck.Two), c(deck.Hearts, deck.Seven), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Jack)},
			want:      ThreeOfAKind,
		},
		{
			name:      "two pair",
			hole:      []deck.Card{c(deck.Spades, deck.Jack), c(deck.Hearts, deck.Jack)},
			community: []deck.Card{c(deck.Diamonds, deck.Four), c(deck.Clubs, deck.Four), c(deck.Hearts, deck.Seven), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Two)},
			want:      TwoPair,
		},
		{
			name:      "pair",
			hole:      []deck.Card{c(deck.Spades, deck.Eight), c(deck.Hearts, deck.Eight)},
			community: []deck.Card{c(deck.Diamonds, deck.Four), c(deck.Clubs, deck.Jack), c(deck.Hearts, deck.Seven), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Two)},
			want:      Pair,
		},
		{
			name:      "high card",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Eight)},
			community: []deck.Card{c(deck.Diamonds, deck.Four), c(deck.Clubs, deck.Jack), c(deck.Hearts, deck.Seven), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Two)},
			want:      HighCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.hole, tt.community)
			if result.Ranking != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, result.Ranking)
			}
		})
	}
}

func TestWheelStraightRanksBelowSixHigh(t *testing.T) {
	wheel := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Two)},
		[]deck.Card{c(deck.Diamonds, deck.Three), c(deck.Clubs, deck.Four), c(deck.Hearts, deck.Five), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Jack)})
	sixHigh := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Six), c(deck.Hearts, deck.Two)},
		[]deck.Card{c(deck.Diamonds, deck.Three), c(deck.Clubs, deck.Four), c(deck.Hearts, deck.Five), c(deck.Spades, deck.Nine), c(deck.Clubs, deck.Jack)})

	if wheel.HighCard != 5 {
		t.Errorf("Wheel high card should be 5, got %d", wheel.HighCard)
	}
	if Compare(sixHigh, wheel) <= 0 {
		t.Error("Six-high straight should beat the wheel")
	}
}

func TestEvaluatePicksBestFive(t *testing.T) {
	// Seven cards holding both a flush and a straight; the flush must win
	result := Evaluate(
		[]deck.Card{c(deck.Clubs, deck.Ace), c(deck.Clubs, deck.Nine)},
		[]deck.Card{c(deck.Clubs, deck.Five), c(deck.Clubs, deck.Three), c(deck.Clubs, deck.Two), c(deck.Hearts, deck.Four), c(deck.Spades, deck.Six)})

	if result.Ranking != Flush {
		t.Errorf("Expected flush as best hand, got %s", result.Ranking)
	}
}

func TestEvaluateFewerThanFiveCards(t *testing.T) {
	result := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Ace)},
		nil)

	if result.Ranking != Pair {
		t.Errorf("Expected pair from two cards, got %s", result.Ranking)
	}
}

func TestCompareKickers(t *testing.T) {
	better := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.King)},
		[]deck.Card{c(deck.Diamonds, deck.Ace), c(deck.Clubs, deck.Nine), c(deck.Hearts, deck.Seven), c(deck.Spades, deck.Four), c(deck.Clubs, deck.Two)})
	worse := Evaluate(
		[]deck.Card{c(deck.Clubs, deck.Ace), c(deck.Hearts, deck.Queen)},
		[]deck.Card{c(deck.Diamonds, deck.Ace), c(deck.Clubs, deck.Nine), c(deck.Hearts, deck.Seven), c(deck.Spades, deck.Four), c(deck.Clubs, deck.Two)})

	if Compare(better, worse) <= 0 {
		t.Error("Ace-king kicker should beat ace-queen kicker")
	}
	if Compare(worse, better) >= 0 {
		t.Error("Compare should be antisymmetric")
	}
	if Compare(better, better) != 0 {
		t.Error("Compare should be reflexive")
	}
}

func TestFindWinnersSingleBest(t *testing.T) {
	community := []deck.Card{c(deck.Diamonds, deck.Nine), c(deck.Clubs, deck.Five), c(deck.Hearts, deck.Jack), c(deck.Spades, deck.Two), c(deck.Clubs, deck.Three)}
	winners, err := FindWinners([]PlayerHand{
		{PlayerID: "alice", HoleCards: []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Ace)}},
		{PlayerID: "bob", HoleCards: []deck.Card{c(deck.Spades, deck.King), c(deck.Hearts, deck.King)}},
	}, community)
	if err != nil {
		t.Fatalf("FindWinners failed: %v", err)
	}

	if len(winners) != 1 || winners[0].PlayerID != "alice" {
		t.Errorf("Expected alice to win alone, got %+v", winners)
	}
	if winners[0].Hand.Ranking != Pair {
		t.Errorf("Expected pair, got %s", winners[0].Hand.Ranking)
	}
}

func TestFindWinnersTieInInputOrder(t *testing.T) {
	// Both players play the board
	community := []deck.Card{c(deck.Clubs, deck.Ten), c(deck.Clubs, deck.Jack), c(deck.Clubs, deck.Queen), c(deck.Clubs, deck.King), c(deck.Clubs, deck.Ace)}
	winners, err := FindWinners([]PlayerHand{
		{PlayerID: "bob", HoleCards: []deck.Card{c(deck.Spades, deck.Two), c(deck.Hearts, deck.Three)}},
		{PlayerID: "alice", HoleCards: []deck.Card{c(deck.Diamonds, deck.Two), c(deck.Hearts, deck.Four)}},
	}, community)
	if err != nil {
		t.Fatalf("FindWinners failed: %v", err)
	}

	if len(winners) != 2 {
		t.Fatalf("Expected 2 winners, got %d", len(winners))
	}
	if winners[0].PlayerID != "bob" || winners[1].PlayerID != "alice" {
		t.Errorf("Tie should preserve input order, got %s then %s", winners[0].PlayerID, winners[1].PlayerID)
	}
}

func TestFindWinnersEmpty(t *testing.T) {
	_, err := FindWinners(nil, nil)
	if !errors.Is(err, ErrNoWinner) {
		t.Errorf("Expected ErrNoWinner, got %v", err)
	}
}

func TestDistributePot(t *testing.T) {
	winners := []Winner{{PlayerID: "a"}, {PlayerID: "b"}, {PlayerID: "c"}}

	payouts := DistributePot(winners, 100)
	if payouts["a"] != 34 || payouts["b"] != 33 || payouts["c"] != 33 {
		t.Errorf("Unexpected payouts: %+v", payouts)
	}

	total := 0
	for _, amount := range payouts {
		total += amount
	}
	if total != 100 {
		t.Errorf("Payouts should sum to the pot, got %d", total)
	}
}
