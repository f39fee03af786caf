package deck

import (
	"errors"
	"math/rand"
	"time"
)

// ErrExhausted is returned when a deal asks for more cards than remain.
var ErrExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of the 52 unique cards, randomly permuted at
// creation. A deck is owned by exactly one round and dealt by popping from
// the end.
type Deck struct {
	cards []Card
}

// New creates a shuffled 52-card deck. The RNG may be provided for
// deterministic tests; a time-seeded source is used when nil.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	// Fisher-Yates
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}

	return d
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Deal removes and returns n cards from the top of the deck. The deck is
// left untouched when fewer than n cards remain.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrExhausted
	}

	dealt := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card := d.cards[len(d.cards)-1]
		d.cards = d.cards[:len(d.cards)-1]
		dealt = append(dealt, card)
	}

	return dealt, nil
}

// DealToPlayers deals two hole cards to each player in standard order: one
// card per player per pass, two passes. The deck is left untouched when it
// cannot cover every player.
func (d *Deck) DealToPlayers(players []string) (map[string][]Card, error) {
	if len(players)*2 > len(d.cards) {
		return nil, ErrExhausted
	}

	hands := make(map[string][]Card, len(players))
	for pass := 0; pass < 2; pass++ {
		for _, p := range players {
			cards, err := d.Deal(1)
			if err != nil {
				return nil, err
			}
			hands[p] = append(hands[p], cards[0])
		}
	}

	return hands, nil
}
