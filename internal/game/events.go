package game

import "github.com/inryceu/Poker/internal/deck"

// Event is a state-change notification fanned out to session players. Every
// event carries a consistent snapshot: maps and slices are copies taken
// after the mutation is fully applied.
type Event interface {
	EventType() string
}

// BlindPost records a posted blind
type BlindPost struct {
	Player string `json:"player"`
	Amount int    `json:"amount"`
}

// RoundStarted is broadcast when a new round begins
type RoundStarted struct {
	SessionID  string         `json:"sessionId"`
	Players    []string       `json:"players"`
	Stacks     map[string]int `json:"stacks"`
	Phase      string         `json:"phase"`
	Pot        int            `json:"pot"`
	CurrentBet int            `json:"currentBet"`
	SmallBlind BlindPost      `json:"smallBlind"`
	BigBlind   BlindPost      `json:"bigBlind"`
}

func (RoundStarted) EventType() string { return "round_started" }

// HoleCardsDealt is sent privately to one player with their two cards
type HoleCardsDealt struct {
	SessionID string      `json:"sessionId"`
	Cards     []deck.Card `json:"cards"`
}

func (HoleCardsDealt) EventType() string { return "hole_cards" }

// TurnPrompt is sent privately to the player whose action is awaited
type TurnPrompt struct {
	SessionID        string      `json:"sessionId"`
	CurrentBet       int         `json:"currentBet"`
	YourBet          int         `json:"yourBet"`
	Pot              int         `json:"pot"`
	Stack            int         `json:"stack"`
	Phase            string      `json:"phase"`
	AvailableActions []string    `json:"availableActions"`
	CommunityCards   []deck.Card `json:"communityCards"`
	TimeoutSeconds   int         `json:"timeoutSeconds"`
}

func (TurnPrompt) EventType() string { return "your_turn" }

// ActionApplied is broadcast after a player action mutates the round
type ActionApplied struct {
	SessionID  string         `json:"sessionId"`
	Player     string         `json:"player"`
	Action     string         `json:"action"`
	Amount     int            `json:"amount,omitempty"`
	Stacks     map[string]int `json:"stacks"`
	Pot        int            `json:"pot"`
	Bets       map[string]int `json:"bets"`
	CurrentBet int            `json:"currentBet"`
}

func (ActionApplied) EventType() string { return "action_applied" }

// PhaseChanged is broadcast when the round advances to the next phase
type PhaseChanged struct {
	SessionID      string      `json:"sessionId"`
	Phase          string      `json:"phase"`
	CommunityCards []deck.Card `json:"communityCards"`
	Pot            int         `json:"pot"`
	CurrentBet     int         `json:"currentBet"`
}

func (PhaseChanged) EventType() string { return "phase_changed" }

// WinnerResult is one winner's share of a settled pot
type WinnerResult struct {
	Player string `json:"player"`
	Amount int    `json:"amount"`
	Hand   string `json:"hand,omitempty"`
}

// RoundSettled is broadcast when a round ends, by showdown or because a
// single player survived. SoftError is set when hand evaluation failed and
// the pot was split equally instead.
type RoundSettled struct {
	SessionID      string                 `json:"sessionId"`
	Winners        []WinnerResult         `json:"winners"`
	Pot            int                    `json:"pot"`
	Stacks         map[string]int         `json:"stacks"`
	CommunityCards []deck.Card            `json:"communityCards"`
	HoleCards      map[string][]deck.Card `json:"holeCards,omitempty"`
	SingleWinner   bool                   `json:"singleWinner,omitempty"`
	SoftError      string                 `json:"softError,omitempty"`
}

func (RoundSettled) EventType() string { return "round_settled" }
