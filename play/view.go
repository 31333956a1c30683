package play

import (
	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/scorecard"
	"github.com/padraicbc/parkgolf/stats"
)

// View is everything a client needs to draw the active sub-course.
type View struct {
	VenueID     string                                                `json:"venueId"`
	VenueName   string                                                `json:"venueName"`
	Courses     []models.SubCourse                                    `json:"courses"`
	Active      int                                                   `json:"active"`
	PlayerNames models.Players                                        `json:"playerNames"`
	Scores      models.CourseScores                                   `json:"scores"`
	Totals      [models.MaxPlayers]int                                `json:"totals"`
	Diffs       [models.HoleCount][models.MaxPlayers]*int             `json:"diffs"`
	Classes     [models.HoleCount][models.MaxPlayers]stats.DiffClass  `json:"classes"`
	Statuses    [models.HoleCount][models.MaxPlayers]scorecard.Status `json:"statuses"`
	Turns       [models.MaxPlayers]scorecard.Turn                     `json:"turns"`
	Phases      [models.MaxPlayers]scorecard.Phase                    `json:"phases"`
	Signatures  models.Signatures                                     `json:"signatures"`
	Selection   *scorecard.Selection                                  `json:"selection,omitempty"`

	// Played lists the sub-courses that already hold a score.
	Played []int `json:"played"`
}

func newView(venue models.Venue, c *scorecard.Card) View {
	state := c.State()
	v := View{
		VenueID:     venue.ID,
		VenueName:   venue.Name,
		Courses:     c.Courses(),
		Active:      c.Active(),
		PlayerNames: state.PlayerNames,
		Scores:      c.Scores(),
		Played:      []int{},
	}
	if v.Active < len(state.Signatures) {
		v.Signatures = state.Signatures[v.Active]
	}
	var pars [models.HoleCount]int
	if v.Active < len(v.Courses) {
		pars = v.Courses[v.Active].Pars
	}

	v.Totals = stats.PerPlayerTotal(v.Scores)
	v.Diffs = stats.CourseDiffs(v.Scores, pars)
	for h := range v.Diffs {
		for p := range v.Diffs[h] {
			v.Classes[h][p] = stats.Classify(v.Diffs[h][p])
			v.Statuses[h][p] = c.Status(h, p)
		}
	}
	for p := range v.Turns {
		v.Turns[p] = c.Turn(p)
		v.Phases[p] = v.Turns[p].Phase()
	}
	if sel, ok := c.Selection(); ok {
		v.Selection = &sel
	}
	for i, cs := range state.AllScores {
		if cs.HasScores() {
			v.Played = append(v.Played, i)
		}
	}
	return v
}
