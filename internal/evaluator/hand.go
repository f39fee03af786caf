package evaluator

import "github.com/inryceu/Poker/internal/deck"

// Ranking classifies a five card combination, higher is stronger
type Ranking int

const (
	HighCard Ranking = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable hand description
func (r Ranking) String() string {
	switch r {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the evaluated strength of a five card combination. Primary
// tie-break fields are set only for the rankings they apply to; Kickers are
// ordered descending. A HandResult is immutable once computed.
type HandResult struct {
	Ranking  Ranking     `json:"ranking"`
	HighCard int         `json:"highCard,omitempty"` // straights; 5 for the wheel
	QuadRank int         `json:"quadRank,omitempty"`
	TripRank int         `json:"tripRank,omitempty"`
	PairRank int         `json:"pairRank,omitempty"`
	HighPair int         `json:"highPair,omitempty"`
	LowPair  int         `json:"lowPair,omitempty"`
	Kickers  []int       `json:"kickers,omitempty"`
	Cards    []deck.Card `json:"cards"`
}

// Description returns the name of the ranking
func (hr HandResult) Description() string {
	return hr.Ranking.String()
}

// Compare returns a positive number if a is stronger than b, a negative
// number if b is stronger, and 0 on a genuine tie. Rankings are compared
// first, then the ranking-specific primary fields, then kickers position by
// position with a missing kicker counting as 0.
func Compare(a, b HandResult) int {
	if a.Ranking != b.Ranking {
		return int(a.Ranking) - int(b.Ranking)
	}

	switch a.Ranking {
	case StraightFlush, Straight:
		return a.HighCard - b.HighCard

	case FourOfAKind:
		if a.QuadRank != b.QuadRank {
			return a.QuadRank - b.QuadRank
		}

	case FullHouse:
		if a.TripRank != b.TripRank {
			return a.TripRank - b.TripRank
		}
		return a.PairRank - b.PairRank

	case ThreeOfAKind:
		if a.TripRank != b.TripRank {
			return a.TripRank - b.TripRank
		}

	case TwoPair:
		if a.HighPair != b.HighPair {
			return a.HighPair - b.HighPair
		}
		if a.LowPair != b.LowPair {
			return a.LowPair - b.LowPair
		}

	case Pair:
		if a.PairRank != b.PairRank {
			return a.PairRank - b.PairRank
		}
	}

	n := len(a.Kickers)
	if len(b.Kickers) > n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		var ka, kb int
		if i < len(a.Kickers) {
			ka = a.Kickers[i]
		}
		if i < len(b.Kickers) {
			kb = b.Kickers[i]
		}
		if ka != kb {
			return ka - kb
		}
	}

	return 0
}
