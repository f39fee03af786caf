// Package game runs the betting state machine for multiplayer poker
// sessions.
//
// The main type is Engine, which owns one table per session. A table holds
// the stacks that persist across rounds, the rotating blind positions, and
// the Round in progress. Each table has its own mutex, so concurrent
// sessions never contend with each other.
//
// # Lifecycle
//
// StartRound rotates the blinds, posts them, deals hole cards and prompts
// the first player. HandleAction applies one validated player action;
// validation happens before any mutation, so a rejected action leaves the
// round untouched. When betting completes the engine deals the next street,
// and after the river it runs the showdown through the evaluator package.
//
// # Timeouts
//
// Every turn prompt arms a timer from the injected quartz.Clock. If the
// timer fires before the player acts they are folded; a per-table sequence
// counter, checked under the table lock, guarantees a late timer and a
// player action can never both apply.
//
// # Deterministic Testing
//
// Tests inject quartz.NewMock to drive timeouts and a seeded *rand.Rand to
// fix the shuffle.
package game
