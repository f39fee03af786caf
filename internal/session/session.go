// Package session holds per-table metadata and the repository the engine
// reads it from. The engine treats sessions as read-only configuration;
// only the roster changes after creation.
package session

import "time"

// Session is the metadata for one poker table
type Session struct {
	ID           string        `json:"id"`
	Admin        string        `json:"admin"`
	StartBalance int           `json:"startBalance"`
	MinBet       int           `json:"minBet"`
	MaxBet       int           `json:"maxBet"`
	SmallBlind   int           `json:"smallBlind"`
	BigBlind     int           `json:"bigBlind"`
	RoundTime    time.Duration `json:"roundTime"`
	Players      []string      `json:"players"`
}

// EffectiveSmallBlind returns the configured small blind, falling back to
// the minimum bet when unset.
func (s *Session) EffectiveSmallBlind() int {
	if s.SmallBlind > 0 {
		return s.SmallBlind
	}
	return s.MinBet
}

// EffectiveBigBlind returns the configured big blind, falling back to twice
// the minimum bet when unset.
func (s *Session) EffectiveBigBlind() int {
	if s.BigBlind > 0 {
		return s.BigBlind
	}
	return s.MinBet * 2
}
