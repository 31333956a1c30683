package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidScore is returned when score text is not one or two decimal digits.
var ErrInvalidScore = errors.New("score must be one or two digits")

// Score is a single hole score. The zero value means "not entered".
type Score struct {
	value int
	set   bool
}

// NewScore returns a set score.
func NewScore(n int) Score {
	return Score{value: n, set: true}
}

// ParseScore validates text typed into a scorecard cell.
// Empty text clears the cell.
func ParseScore(text string) (Score, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Score{}, nil
	}
	if len(text) > 2 {
		return Score{}, ErrInvalidScore
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return Score{}, ErrInvalidScore
		}
	}
	n, _ := strconv.Atoi(text)
	return NewScore(n), nil
}

// IsSet reports whether a score was entered.
func (s Score) IsSet() bool { return s.set }

// Value returns the score and whether it is set.
func (s Score) Value() (int, bool) { return s.value, s.set }

// Int returns the score, or 0 when unset.
func (s Score) Int() int {
	if !s.set {
		return 0
	}
	return s.value
}

// String renders the score the way the input field shows it: "" when unset.
func (s Score) String() string {
	if !s.set {
		return ""
	}
	return strconv.Itoa(s.value)
}

// MarshalJSON keeps the historical text form ("" or digits).
func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the text form, bare numbers and null.
// Text that does not parse as an integer is read as unset.
func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = Score{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			*s = Score{}
			return nil
		}
		*s = NewScore(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = NewScore(int(n))
	return nil
}

// Equal reports whether both scores are unset or hold the same value.
func (s Score) Equal(o Score) bool { return s == o }
