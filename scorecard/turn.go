// Package scorecard implements the per-player hole order of a park-golf
// card and the edits a player can make to it.
//
// Every player picks the hole they tee off on. From then on only the next
// hole in their rotation is open; holes already passed are locked and holes
// not yet reached are disabled. Both can still be corrected with a double
// activation, which overwrites the cell without moving the player's turn.
package scorecard

import "github.com/padraicbc/parkgolf/models"

// Status of a single card cell for the player owning its column.
type Status string

const (
	StatusOpen     Status = "open"
	StatusLocked   Status = "locked"
	StatusDisabled Status = "disabled"
)

// Phase of a player's progression through the nine holes.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

// Cell addresses one hole of one player column.
type Cell struct {
	Hole   int `json:"hole"`
	Player int `json:"player"`
}

// Turn is one player's progression. The zero value is not started.
type Turn struct {
	StartHole   *int   `json:"startHole"`
	InputOrder  []Cell `json:"inputOrder"`
	CurrentStep int    `json:"currentStep"`
}

// InputOrder returns the nine cells player fills in, starting at start and
// wrapping after the last hole.
func InputOrder(start, player int) []Cell {
	order := make([]Cell, models.HoleCount)
	for i := range order {
		order[i] = Cell{Hole: (start + i) % models.HoleCount, Player: player}
	}
	return order
}

// StartTurn begins a player's rotation at hole.
func StartTurn(hole, player int) Turn {
	h := hole
	return Turn{StartHole: &h, InputOrder: InputOrder(hole, player), CurrentStep: 0}
}

// Started reports whether a start hole was chosen.
func (t Turn) Started() bool { return t.StartHole != nil }

// Phase reports where the player is in the rotation.
func (t Turn) Phase() Phase {
	switch {
	case !t.Started():
		return PhaseNotStarted
	case t.CurrentStep >= len(t.InputOrder):
		return PhaseComplete
	default:
		return PhaseInProgress
	}
}

// Current returns the cell the player fills next.
func (t Turn) Current() (Cell, bool) {
	if !t.Started() || t.CurrentStep >= len(t.InputOrder) {
		return Cell{}, false
	}
	return t.InputOrder[t.CurrentStep], true
}

// CellStatus reports whether player may edit hole under turn t.
func CellStatus(t Turn, hole, player int) Status {
	if !t.Started() {
		return StatusOpen
	}
	idx := -1
	for i, c := range t.InputOrder {
		if c.Hole == hole && c.Player == player {
			idx = i
			break
		}
	}
	switch {
	case idx == -1:
		return StatusDisabled
	case idx < t.CurrentStep:
		return StatusLocked
	case idx == t.CurrentStep:
		return StatusOpen
	default:
		return StatusDisabled
	}
}
