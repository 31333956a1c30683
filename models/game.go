package models

import "time"

// DefaultPlayerNames fill blank name slots on a card.
var DefaultPlayerNames = Players{"이름1", "이름2", "이름3", "이름4"}

// Players holds the four name slots of a card.
type Players [MaxPlayers]string

// CourseScores is the hole x player grid of one sub-course.
type CourseScores [HoleCount][MaxPlayers]Score

// Signatures holds one data-URL image per player; nil means unsigned.
type Signatures [MaxPlayers]*string

// HasScores reports whether any cell of the grid is filled.
func (cs CourseScores) HasScores() bool {
	for _, hole := range cs {
		for _, s := range hole {
			if s.IsSet() {
				return true
			}
		}
	}
	return false
}

// GameState is the round in progress for one venue.
type GameState struct {
	PlayerNames Players        `json:"playerNames"`
	AllScores   []CourseScores `json:"allScores"`
	Signatures  []Signatures   `json:"signatures"`
}

// NewGameState returns an empty card for a venue with n sub-courses.
func NewGameState(n int) GameState {
	return GameState{
		PlayerNames: DefaultPlayerNames,
		AllScores:   make([]CourseScores, n),
		Signatures:  make([]Signatures, n),
	}
}

// Fit pads or trims the per-sub-course slices to n entries and fills
// blank player names. Stored states written by older clients may be short.
func (g *GameState) Fit(n int) {
	for len(g.AllScores) < n {
		g.AllScores = append(g.AllScores, CourseScores{})
	}
	g.AllScores = g.AllScores[:n]
	for len(g.Signatures) < n {
		g.Signatures = append(g.Signatures, Signatures{})
	}
	g.Signatures = g.Signatures[:n]
	for i, name := range g.PlayerNames {
		if name == "" {
			g.PlayerNames[i] = DefaultPlayerNames[i]
		}
	}
}

// GameRecord is a saved snapshot of the played sub-courses of a round.
// AllScores, Signatures and PlayedCourses are index-aligned.
type GameRecord struct {
	ID            string         `json:"id"`
	Date          time.Time      `json:"date"`
	CourseID      string         `json:"courseId"`
	CourseName    string         `json:"courseName"`
	PlayerNames   Players        `json:"playerNames"`
	AllScores     []CourseScores `json:"allScores"`
	Signatures    []Signatures   `json:"signatures"`
	PlayedCourses []SubCourse    `json:"playedCourses"`
}
