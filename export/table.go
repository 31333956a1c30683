// Package export renders saved records as spreadsheets and statistics
// as chart images.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/stats"
)

// SheetName is the worksheet holding the record table in XLSX exports.
const SheetName = "Records"

const bom = "\ufeff"

// Header is the first row of every record table.
var Header = []string{"날짜", "시간", "구장", "A코스", "B코스", "C코스", "D코스", "E코스", "F코스"}

// FileName returns the download name for an export made at now.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("golf_records_%s.%s", now.Format("2006-01-02"), ext)
}

// Row is one record as a table row: local date and time, the venue's
// first word and the player-one total per sub-course letter.
func Row(r models.GameRecord, loc *time.Location) []string {
	row := rowLabels(r, loc)
	for _, total := range letterTotals(r) {
		row = append(row, strconv.Itoa(total))
	}
	return row
}

func rowLabels(r models.GameRecord, loc *time.Location) []string {
	local := r.Date.In(loc)
	venue := ""
	if fields := strings.Fields(r.CourseName); len(fields) > 0 {
		venue = fields[0]
	}
	return []string{local.Format("2006. 1. 2."), local.Format("15:04"), venue}
}

// letterTotals returns the player-one total for sub-courses A to F,
// 0 where the letter was not played.
func letterTotals(r models.GameRecord) [models.MaxSubCourses]int {
	var totals [models.MaxSubCourses]int
	for i, sc := range r.PlayedCourses {
		if i >= len(r.AllScores) {
			continue
		}
		for j, letter := range models.SubCourseNames {
			if sc.Name == letter {
				totals[j] = stats.PlayerOneTotal(r.AllScores[i])
			}
		}
	}
	return totals
}

// WriteCSV writes the record table as UTF-8 CSV with a byte-order mark so
// spreadsheet programs pick up the Hangul headers.
func WriteCSV(w io.Writer, records []models.GameRecord, loc *time.Location) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(Row(r, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the record table as a workbook with one sheet.
// Totals are stored as numbers.
func WriteXLSX(w io.Writer, records []models.GameRecord, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for idx, r := range records {
		var cells []interface{}
		for _, label := range rowLabels(r, loc) {
			cells = append(cells, label)
		}
		for _, total := range letterTotals(r) {
			cells = append(cells, total)
		}
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", idx+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
