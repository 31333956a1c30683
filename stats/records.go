package stats

import (
	"strings"
	"time"

	"github.com/padraicbc/parkgolf/models"
)

// Rating of a record average against the 33-stroke reference round.
type Rating string

const (
	RatingNone  Rating = "none"
	RatingUnder Rating = "under"
	RatingEven  Rating = "even"
	RatingOver  Rating = "over"
)

// ReferenceRound is the nine-hole total rated as even.
const ReferenceRound = 33

// RecordAverage averages the player-one totals of the sub-courses in r
// where every player-one hole was filled in.
func RecordAverage(r models.GameRecord) float64 {
	sum, n := 0, 0
	for _, cs := range r.AllScores {
		complete := true
		for _, hole := range cs {
			if !hole[0].IsSet() {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		sum += PlayerOneTotal(cs)
		n++
	}
	if n == 0 {
		return 0
	}
	return round2(float64(sum) / float64(n))
}

// RateAverage classifies a record average.
func RateAverage(avg float64) Rating {
	switch {
	case avg == 0:
		return RatingNone
	case avg < ReferenceRound:
		return RatingUnder
	case avg == ReferenceRound:
		return RatingEven
	default:
		return RatingOver
	}
}

// DayGroup holds the records saved on one local date.
type DayGroup struct {
	Date    string              `json:"date"`
	Records []models.GameRecord `json:"records"`
}

// MonthGroup holds the day groups of one local month.
type MonthGroup struct {
	Month string     `json:"month"`
	Days  []DayGroup `json:"days"`
}

// GroupByMonthAndDate buckets records by YYYY-MM and YYYY-MM-DD in loc,
// keeping the order in which records are given.
func GroupByMonthAndDate(records []models.GameRecord, loc *time.Location) []MonthGroup {
	var months []MonthGroup
	monthIdx := map[string]int{}
	dayIdx := map[string]int{}
	for _, r := range records {
		local := r.Date.In(loc)
		month, day := local.Format("2006-01"), local.Format("2006-01-02")

		mi, ok := monthIdx[month]
		if !ok {
			mi = len(months)
			monthIdx[month] = mi
			months = append(months, MonthGroup{Month: month})
		}
		di, ok := dayIdx[day]
		if !ok {
			di = len(months[mi].Days)
			dayIdx[day] = di
			months[mi].Days = append(months[mi].Days, DayGroup{Date: day})
		}
		months[mi].Days[di].Records = append(months[mi].Days[di].Records, r)
	}
	return months
}

// Filter keeps records whose venue name or local timestamp contains text,
// ignoring case. Blank text keeps everything.
func Filter(records []models.GameRecord, text string, loc *time.Location) []models.GameRecord {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return records
	}
	out := []models.GameRecord{}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.CourseName), text) ||
			strings.Contains(r.Date.In(loc).Format("2006-01-02 15:04"), text) {
			out = append(out, r)
		}
	}
	return out
}
