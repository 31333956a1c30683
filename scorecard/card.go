package scorecard

import (
	"errors"
	"strings"

	"github.com/padraicbc/parkgolf/models"
)

var (
	ErrCellLocked     = errors.New("this cell is already entered; double-tap to correct it")
	ErrNotYourTurn    = errors.New("not this cell's turn yet; double-tap to force an edit")
	ErrNoSelection    = errors.New("no cell selected")
	ErrNothingEntered = errors.New("no score entered for this turn")
	ErrCellIndex      = errors.New("cell out of range")
	ErrCourseIndex    = errors.New("sub-course index out of range")
	ErrSignature      = errors.New("signature must be an image data URL")
	ErrPlayerIndex    = errors.New("player index out of range")
)

// Selection is the cell the number pad currently writes to.
type Selection struct {
	Cell
	// Editing marks a forced edit of a locked or disabled cell.
	Editing bool   `json:"editing"`
	Text    string `json:"text"`
}

// Card is the round in progress at one venue: the persisted scores,
// names and signatures plus the turn state of the active sub-course.
type Card struct {
	courses []models.SubCourse
	state   models.GameState
	active  int
	turns   [models.MaxPlayers]Turn
	pending [models.MaxPlayers]bool
	sel     *Selection
}

// NewCard builds a card for the given sub-courses from a stored state.
// The state is resized to the sub-course count.
func NewCard(courses []models.SubCourse, state models.GameState) *Card {
	c := &Card{courses: courses, state: state}
	c.state.Fit(len(courses))
	return c
}

// SetCourses refreshes the par data, e.g. after an edit in the registry.
// A changed sub-course count resizes the stored grids.
func (c *Card) SetCourses(courses []models.SubCourse) {
	c.courses = courses
	c.state.Fit(len(courses))
	if c.active >= len(courses) {
		c.SwitchCourse(0)
	}
}

// State returns the persisted part of the card.
func (c *Card) State() models.GameState { return c.state }

// Courses returns the sub-courses of the card.
func (c *Card) Courses() []models.SubCourse { return c.courses }

// Active returns the index of the sub-course being played.
func (c *Card) Active() int { return c.active }

// Turn returns the turn state of a player on the active sub-course.
func (c *Card) Turn(player int) Turn { return c.turns[player] }

// Selection returns the selected cell, if any.
func (c *Card) Selection() (Selection, bool) {
	if c.sel == nil {
		return Selection{}, false
	}
	return *c.sel, true
}

// Scores returns the grid of the active sub-course.
func (c *Card) Scores() models.CourseScores {
	if len(c.state.AllScores) == 0 {
		return models.CourseScores{}
	}
	return c.state.AllScores[c.active]
}

// Status reports the editability of a cell on the active sub-course.
func (c *Card) Status(hole, player int) Status {
	return CellStatus(c.turns[player], hole, player)
}

// Select activates a cell. double is the explicit double-activation gesture
// that allows correcting locked and disabled cells.
func (c *Card) Select(hole, player int, double bool) (Selection, error) {
	if err := c.checkCell(hole, player); err != nil {
		return Selection{}, err
	}
	c.sel = nil

	sel := Selection{Cell: Cell{Hole: hole, Player: player}, Text: c.Scores()[hole][player].String()}
	switch c.Status(hole, player) {
	case StatusOpen:
		if !c.turns[player].Started() {
			c.turns[player] = StartTurn(hole, player)
		}
		c.pending[player] = true
	case StatusLocked:
		if !double {
			return Selection{}, ErrCellLocked
		}
		sel.Editing = true
	case StatusDisabled:
		if !double {
			return Selection{}, ErrNotYourTurn
		}
		sel.Editing = true
	}
	c.sel = &sel
	return sel, nil
}

// PadInput applies a number-pad key to the selected cell. An empty key
// clears the cell. While entering a turn digits are appended; a forced edit
// replaces the value.
func (c *Card) PadInput(key string) (Selection, error) {
	if c.sel == nil {
		return Selection{}, ErrNoSelection
	}
	key = strings.TrimSpace(key)

	text := key
	if key != "" && !c.sel.Editing && c.sel.Text != "0" {
		text = c.sel.Text + key
	}
	score, err := models.ParseScore(text)
	if err != nil {
		return Selection{}, err
	}
	c.state.AllScores[c.active][c.sel.Hole][c.sel.Player] = score
	c.sel.Text = score.String()
	return *c.sel, nil
}

// SetScore selects a cell and overwrites it with text in one step.
func (c *Card) SetScore(hole, player int, text string, double bool) error {
	score, err := models.ParseScore(text)
	if err != nil {
		return err
	}
	if _, err := c.Select(hole, player, double); err != nil {
		return err
	}
	c.state.AllScores[c.active][hole][player] = score
	c.sel.Text = score.String()
	return nil
}

// Commit ends the current turn. Every player who selected their open cell
// since the last commit and left a score in it moves to the next hole.
// It returns the players that advanced.
func (c *Card) Commit() ([]int, error) {
	c.sel = nil

	var advanced []int
	scores := c.Scores()
	for p := range c.turns {
		if !c.pending[p] {
			continue
		}
		cur, ok := c.turns[p].Current()
		if !ok || !scores[cur.Hole][p].IsSet() {
			continue
		}
		c.turns[p].CurrentStep++
		advanced = append(advanced, p)
	}
	c.pending = [models.MaxPlayers]bool{}

	if len(advanced) == 0 {
		return nil, ErrNothingEntered
	}
	return advanced, nil
}

// Cancel closes the number pad without changing any turn.
func (c *Card) Cancel() {
	c.sel = nil
}

// SwitchCourse makes sub-course i active. Turns are tracked per sub-course,
// so every player starts over.
func (c *Card) SwitchCourse(i int) error {
	if i < 0 || i >= len(c.courses) {
		return ErrCourseIndex
	}
	c.active = i
	c.resetTurns()
	return nil
}

// ResetCourse clears scores, signatures and turns of the active sub-course.
func (c *Card) ResetCourse() {
	if len(c.state.AllScores) > 0 {
		c.state.AllScores[c.active] = models.CourseScores{}
		c.state.Signatures[c.active] = models.Signatures{}
	}
	c.resetTurns()
}

// ResetAll clears scores, signatures and turns of every sub-course.
func (c *Card) ResetAll() {
	n := len(c.courses)
	c.state.AllScores = make([]models.CourseScores, n)
	c.state.Signatures = make([]models.Signatures, n)
	c.resetTurns()
}

// SetPlayerNames replaces the player names. Blank names get the default.
func (c *Card) SetPlayerNames(names []string) {
	var out models.Players
	for i := range out {
		if i < len(names) {
			out[i] = strings.TrimSpace(names[i])
		}
		if out[i] == "" {
			out[i] = models.DefaultPlayerNames[i]
		}
	}
	c.state.PlayerNames = out
}

// SetSignature stores a player's signature on the active sub-course.
func (c *Card) SetSignature(player int, dataURL string) error {
	if player < 0 || player >= models.MaxPlayers {
		return ErrPlayerIndex
	}
	if !strings.HasPrefix(dataURL, "data:image/") {
		return ErrSignature
	}
	if len(c.state.Signatures) == 0 {
		return ErrCourseIndex
	}
	sig := dataURL
	c.state.Signatures[c.active][player] = &sig
	return nil
}

// ClearSignature removes a player's signature on the active sub-course.
func (c *Card) ClearSignature(player int) error {
	if player < 0 || player >= models.MaxPlayers {
		return ErrPlayerIndex
	}
	if len(c.state.Signatures) == 0 {
		return ErrCourseIndex
	}
	c.state.Signatures[c.active][player] = nil
	return nil
}

func (c *Card) resetTurns() {
	c.turns = [models.MaxPlayers]Turn{}
	c.pending = [models.MaxPlayers]bool{}
	c.sel = nil
}

func (c *Card) checkCell(hole, player int) error {
	if hole < 0 || hole >= models.HoleCount || player < 0 || player >= models.MaxPlayers {
		return ErrCellIndex
	}
	if len(c.state.AllScores) == 0 {
		return ErrCourseIndex
	}
	return nil
}
