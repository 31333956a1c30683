// Package stats computes the scorecard totals and the cross-round
// statistics shown on the records page.
package stats

import "github.com/padraicbc/parkgolf/models"

// DiffClass colours a hole score relative to par.
type DiffClass string

const (
	DiffNone  DiffClass = "none"
	DiffUnder DiffClass = "under"
	DiffEven  DiffClass = "even"
	DiffOver  DiffClass = "over"
)

// PerPlayerTotal sums every player column of one sub-course.
// Unset cells count as 0.
func PerPlayerTotal(scores models.CourseScores) [models.MaxPlayers]int {
	var totals [models.MaxPlayers]int
	for _, hole := range scores {
		for p, s := range hole {
			totals[p] += s.Int()
		}
	}
	return totals
}

// PlayerOneTotal is the sum of the first column, the score the
// statistics and exports are based on.
func PlayerOneTotal(scores models.CourseScores) int {
	return PerPlayerTotal(scores)[0]
}

// ScoreDiff returns score minus par, or nil when the score is unset.
func ScoreDiff(score models.Score, par int) *int {
	v, ok := score.Value()
	if !ok {
		return nil
	}
	d := v - par
	return &d
}

// Classify maps a differential to its display class.
func Classify(diff *int) DiffClass {
	switch {
	case diff == nil:
		return DiffNone
	case *diff < 0:
		return DiffUnder
	case *diff == 0:
		return DiffEven
	default:
		return DiffOver
	}
}

// CourseDiffs returns the differential of every cell against the hole pars.
func CourseDiffs(scores models.CourseScores, pars [models.HoleCount]int) [models.HoleCount][models.MaxPlayers]*int {
	var out [models.HoleCount][models.MaxPlayers]*int
	for h, hole := range scores {
		for p, s := range hole {
			out[h][p] = ScoreDiff(s, pars[h])
		}
	}
	return out
}
