package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	// HoleCount is the number of holes on every sub-course.
	HoleCount = 9
	// MaxPlayers is the number of score columns on a card.
	MaxPlayers = 4
	// MaxSubCourses is the number of lettered sub-courses a venue can have.
	MaxSubCourses = 6
	// DefaultPar replaces missing or non-positive par input.
	DefaultPar = 3
)

// SubCourseNames are the letters given to sub-courses by position.
var SubCourseNames = [MaxSubCourses]string{"A", "B", "C", "D", "E", "F"}

// Venue is a park-golf facility with one or more 9-hole sub-courses.
type Venue struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Courses []SubCourse `json:"courses"`
	BuiltIn bool        `json:"builtIn,omitempty"`
}

// SubCourse is one lettered 9-hole layout.
type SubCourse struct {
	Name string         `json:"name"`
	Pars [HoleCount]int `json:"pars"`
}

// Clone returns a deep copy, so a snapshot survives later par edits.
func (v Venue) Clone() Venue {
	out := v
	out.Courses = append([]SubCourse(nil), v.Courses...)
	return out
}

// Par returns the total par of the sub-course.
func (sc SubCourse) Par() int {
	total := 0
	for _, p := range sc.Pars {
		total += p
	}
	return total
}

// UnmarshalJSON accepts pars written as numbers or as the text typed into
// the par editor. Missing, non-positive or unparseable pars read as
// DefaultPar.
func (sc *SubCourse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name string            `json:"name"`
		Pars []json.RawMessage `json:"pars"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sc.Name = raw.Name
	for h := range sc.Pars {
		sc.Pars[h] = DefaultPar
		if h < len(raw.Pars) {
			if n := parValue(raw.Pars[h]); n > 0 {
				sc.Pars[h] = n
			}
		}
	}
	return nil
}

func parValue(raw json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
