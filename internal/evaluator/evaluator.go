// Package evaluator ranks Texas Hold'em hands. Evaluation searches every
// five card combination of a player's hole cards and the community cards and
// keeps the strongest, so results carry the exact tie-break metadata needed
// to split pots correctly.
package evaluator

import (
	"errors"
	"sort"

	"github.com/inryceu/Poker/internal/deck"
)

// ErrNoWinner is returned when winners are requested for an empty player list.
var ErrNoWinner = errors.New("no winner could be determined")

// PlayerHand pairs a player with their hole cards for showdown evaluation
type PlayerHand struct {
	PlayerID  string
	HoleCards []deck.Card
}

// Winner is a player whose hand tied for the strongest at showdown
type Winner struct {
	PlayerID string
	Hand     HandResult
}

// Evaluate computes the best five card hand from hole and community cards.
// With fewer than five cards available the partial hand is ranked directly.
func Evaluate(hole, community []deck.Card) HandResult {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	if len(all) <= 5 {
		return rankFive(all)
	}

	var best HandResult
	forEachCombination(all, 5, func(combo []deck.Card) {
		result := rankFive(combo)
		if best.Ranking == 0 || Compare(result, best) > 0 {
			best = result
		}
	})

	return best
}

// FindWinners evaluates every player against the community cards and returns
// all players whose hand ties for the strongest, in input order.
func FindWinners(players []PlayerHand, community []deck.Card) ([]Winner, error) {
	if len(players) == 0 {
		return nil, ErrNoWinner
	}

	evaluated := make([]Winner, len(players))
	for i, p := range players {
		evaluated[i] = Winner{PlayerID: p.PlayerID, Hand: Evaluate(p.HoleCards, community)}
	}

	best := evaluated[0].Hand
	for _, w := range evaluated[1:] {
		if Compare(w.Hand, best) > 0 {
			best = w.Hand
		}
	}

	winners := make([]Winner, 0, 1)
	for _, w := range evaluated {
		if Compare(w.Hand, best) == 0 {
			winners = append(winners, w)
		}
	}

	return winners, nil
}

// DistributePot splits the pot between winners. The remainder after the
// integer division is handed out one chip at a time in winner order, so the
// distributed amounts always sum to exactly pot.
func DistributePot(winners []Winner, pot int) map[string]int {
	share := pot / len(winners)
	remainder := pot % len(winners)

	distribution := make(map[string]int, len(winners))
	for i, w := range winners {
		amount := share
		if i < remainder {
			amount++
		}
		distribution[w.PlayerID] = amount
	}

	return distribution
}

// forEachCombination calls fn with every k-card combination of cards. The
// slice passed to fn is reused between calls.
func forEachCombination(cards []deck.Card, k int, fn func([]deck.Card)) {
	combo := make([]deck.Card, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}

// rankGroup is a set of cards sharing one rank
type rankGroup struct {
	rank  int
	cards []deck.Card
}

// rankFive classifies a hand of at most five cards
func rankFive(cards []deck.Card) HandResult {
	if len(cards) == 0 {
		return HandResult{Ranking: HighCard}
	}

	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	flush := isFlush(sorted)
	straightHigh, straight := straightHighCard(sorted)
	groups := groupByRank(sorted)

	switch {
	case flush && straight && straightHigh == int(deck.Ace):
		return HandResult{Ranking: RoyalFlush, HighCard: straightHigh, Cards: sorted}

	case flush && straight:
		return HandResult{Ranking: StraightFlush, HighCard: straightHigh, Cards: sorted}

	case len(groups[0].cards) == 4:
		return HandResult{
			Ranking:  FourOfAKind,
			QuadRank: groups[0].rank,
			Kickers:  kickerRanks(groups[1:], 1),
			Cards:    sorted,
		}

	case len(groups[0].cards) == 3 && len(groups) > 1 && len(groups[1].cards) >= 2:
		return HandResult{
			Ranking:  FullHouse,
			TripRank: groups[0].rank,
			PairRank: groups[1].rank,
			Cards:    sorted,
		}

	case flush:
		return HandResult{Ranking: Flush, Kickers: allRanks(sorted), Cards: sorted}

	case straight:
		return HandResult{Ranking: Straight, HighCard: straightHigh, Cards: sorted}

	case len(groups[0].cards) == 3:
		return HandResult{
			Ranking:  ThreeOfAKind,
			TripRank: groups[0].rank,
			Kickers:  kickerRanks(groups[1:], 2),
			Cards:    sorted,
		}

	case len(groups[0].cards) == 2 && len(groups) > 1 && len(groups[1].cards) == 2:
		return HandResult{
			Ranking:  TwoPair,
			HighPair: groups[0].rank,
			LowPair:  groups[1].rank,
			Kickers:  kickerRanks(groups[2:], 1),
			Cards:    sorted,
		}

	case len(groups[0].cards) == 2:
		return HandResult{
			Ranking:  Pair,
			PairRank: groups[0].rank,
			Kickers:  kickerRanks(groups[1:], 3),
			Cards:    sorted,
		}

	default:
		return HandResult{Ranking: HighCard, Kickers: allRanks(sorted), Cards: sorted}
	}
}

// isFlush reports whether a full five card hand is a single suit
func isFlush(cards []deck.Card) bool {
	if len(cards) < 5 {
		return false
	}
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightHighCard returns the comparison high card of a five card straight.
// The wheel (A-2-3-4-5) counts as a straight with high card 5, not 14.
func straightHighCard(sorted []deck.Card) (int, bool) {
	if len(sorted) < 5 {
		return 0, false
	}

	distinct := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			distinct = false
			break
		}
	}

	if distinct && int(sorted[0].Rank)-int(sorted[4].Rank) == 4 {
		return int(sorted[0].Rank), true
	}

	// Wheel: A-5-4-3-2 once sorted descending
	if distinct &&
		sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[4].Rank == deck.Two {
		return int(deck.Five), true
	}

	return 0, false
}

// groupByRank groups cards by rank, larger groups first, higher ranks first
// within equal sizes.
func groupByRank(cards []deck.Card) []rankGroup {
	byRank := make(map[int][]deck.Card)
	for _, c := range cards {
		byRank[int(c.Rank)] = append(byRank[int(c.Rank)], c)
	}

	groups := make([]rankGroup, 0, len(byRank))
	for rank, cs := range byRank {
		groups = append(groups, rankGroup{rank: rank, cards: cs})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].cards) != len(groups[j].cards) {
			return len(groups[i].cards) > len(groups[j].cards)
		}
		return groups[i].rank > groups[j].rank
	})

	return groups
}

// kickerRanks flattens the given groups into at most n ranks, descending
func kickerRanks(groups []rankGroup, n int) []int {
	kickers := make([]int, 0, n)
	for _, g := range groups {
		for range g.cards {
			if len(kickers) == n {
				return kickers
			}
			kickers = append(kickers, g.rank)
		}
	}
	return kickers
}

// allRanks returns the ranks of every card, descending
func allRanks(sorted []deck.Card) []int {
	ranks := make([]int, len(sorted))
	for i, c := range sorted {
		ranks[i] = int(c.Rank)
	}
	return ranks
}
