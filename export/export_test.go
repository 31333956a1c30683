package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/stats"
)

func testRecords() []models.GameRecord {
	var a, c models.CourseScores
	for h := 0; h < models.HoleCount; h++ {
		a[h][0] = models.NewScore(3)
		c[h][0] = models.NewScore(4)
		c[h][1] = models.NewScore(5)
	}
	return []models.GameRecord{
		{
			ID:            "r2",
			Date:          time.Date(2025, 5, 3, 1, 30, 0, 0, time.UTC),
			CourseName:    "아르피아 파크골프장",
			AllScores:     []models.CourseScores{a, c},
			PlayedCourses: []models.SubCourse{{Name: "A"}, {Name: "C"}},
		},
		{
			ID:            "r1",
			Date:          time.Date(2025, 4, 30, 23, 5, 0, 0, time.UTC),
			CourseName:    "포곡",
			AllScores:     []models.CourseScores{c},
			PlayedCourses: []models.SubCourse{{Name: "B"}},
		},
	}
}

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func TestRow(t *testing.T) {
	row := Row(testRecords()[0], seoul(t))
	assert.Equal(t, []string{"2025. 5. 3.", "10:30", "아르피아", "27", "0", "36", "0", "0", "0"}, row)

	row = Row(testRecords()[1], seoul(t))
	assert.Equal(t, "2025. 5. 1.", row[0], "local date in Seoul")
	assert.Equal(t, "08:05", row[1])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testRecords(), seoul(t)))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, bom))

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, bom))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "포곡", rows[2][2])
	assert.Equal(t, "36", rows[2][4])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testRecords(), seoul(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"2025. 5. 3.", "10:30", "아르피아", "27", "0", "36", "0", "0", "0"}, rows[1])

	labelType, err := f.GetCellType(SheetName, "A2")
	require.NoError(t, err)
	totalType, err := f.GetCellType(SheetName, "D2")
	require.NoError(t, err)
	assert.NotEqual(t, labelType, totalType, "totals are stored as numbers")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "golf_records_2025-05-03.csv", FileName(time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC), "csv"))
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestCharts(t *testing.T) {
	records := testRecords()
	loc := seoul(t)

	tests := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{name: "monthly", render: func() ([]byte, error) {
			return AverageChart("Monthly", stats.MonthlyAverage(records, loc), DefaultPalette)
		}},
		{name: "venues", render: func() ([]byte, error) {
			return AverageChart("Venues", stats.ByVenueAverage(records), DefaultPalette)
		}},
		{name: "recent", render: func() ([]byte, error) {
			return RecentChart("Recent", stats.RecentRoundsSeries(records, 10), DefaultPalette)
		}},
		{name: "single recent point", render: func() ([]byte, error) {
			return RecentChart("Recent", stats.RecentRoundsSeries(records[1:], 10), DefaultPalette)
		}},
		{name: "plays", render: func() ([]byte, error) {
			return PlayCountChart("Plays", stats.PlayCounts(records), DefaultPalette)
		}},
		{name: "empty averages", render: func() ([]byte, error) {
			return AverageChart("Monthly", nil, DefaultPalette)
		}},
		{name: "empty recent", render: func() ([]byte, error) {
			return RecentChart("Recent", nil, DefaultPalette)
		}},
		{name: "empty plays", render: func() ([]byte, error) {
			return PlayCountChart("Plays", nil, DefaultPalette)
		}},
		{name: "single zero point", render: func() ([]byte, error) {
			return RecentChart("Recent", []stats.RoundPoint{{Label: "?A", Score: 0}}, DefaultPalette)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := tt.render()
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}
