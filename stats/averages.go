package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/padraicbc/parkgolf/models"
)

// DefaultRecentRounds is the length of the recent-rounds series.
const DefaultRecentRounds = 10

// UnnamedVenue labels records saved without a venue name.
const UnnamedVenue = "?"

// Average is one bar of an averages chart.
type Average struct {
	Label string  `json:"label"`
	Avg   float64 `json:"avg"`
}

// RoundPoint is one played sub-course in the recent-rounds series.
type RoundPoint struct {
	Label string    `json:"label"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Count is one slice of the play-count chart.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type group struct {
	label string
	sum   int
	n     int
}

type grouper struct {
	order []string
	byKey map[string]*group
}

func newGrouper() *grouper {
	return &grouper{byKey: map[string]*group{}}
}

func (g *grouper) add(label string, total int) {
	grp, ok := g.byKey[label]
	if !ok {
		grp = &group{label: label}
		g.byKey[label] = grp
		g.order = append(g.order, label)
	}
	if total > 0 {
		grp.sum += total
		grp.n++
	}
}

func (g *grouper) averages() []Average {
	out := make([]Average, 0, len(g.order))
	for _, label := range g.order {
		grp := g.byKey[label]
		avg := 0.0
		if grp.n > 0 {
			avg = round2(float64(grp.sum) / float64(grp.n))
		}
		out = append(out, Average{Label: label, Avg: avg})
	}
	return out
}

// MonthlyAverage averages the player-one totals of every played sub-course
// per calendar month in loc. Only totals above zero count. Labels are
// YYYY-MM, ascending.
func MonthlyAverage(records []models.GameRecord, loc *time.Location) []Average {
	g := newGrouper()
	for _, r := range records {
		month := r.Date.In(loc).Format("2006-01")
		for _, cs := range r.AllScores {
			g.add(month, PlayerOneTotal(cs))
		}
	}
	sort.Strings(g.order)
	return g.averages()
}

// ByVenueAverage applies the monthly rule grouped by venue name, in the
// order venues first appear.
func ByVenueAverage(records []models.GameRecord) []Average {
	g := newGrouper()
	for _, r := range records {
		name := venueLabel(r.CourseName)
		for _, cs := range r.AllScores {
			g.add(name, PlayerOneTotal(cs))
		}
	}
	return g.averages()
}

// RecentRoundsSeries returns the last n played sub-courses, oldest first.
// n <= 0 uses DefaultRecentRounds.
func RecentRoundsSeries(records []models.GameRecord, n int) []RoundPoint {
	if n <= 0 {
		n = DefaultRecentRounds
	}
	var points []RoundPoint
	for _, r := range records {
		initial := firstRune(r.CourseName)
		for i, cs := range r.AllScores {
			letter := ""
			if i < len(r.PlayedCourses) {
				letter = r.PlayedCourses[i].Name
			}
			points = append(points, RoundPoint{
				Label: initial + letter,
				Score: PlayerOneTotal(cs),
				Date:  r.Date,
			})
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.After(points[j].Date)
	})
	if len(points) > n {
		points = points[:n]
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}

// PlayCounts counts saved records per venue, in first-seen order.
func PlayCounts(records []models.GameRecord) []Count {
	var out []Count
	idx := map[string]int{}
	for _, r := range records {
		name := venueLabel(r.CourseName)
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, Count{Label: name})
		}
		out[i].Count++
	}
	return out
}

func venueLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnnamedVenue
	}
	return name
}

func firstRune(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return string(r)
	}
	return ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
