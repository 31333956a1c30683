package course

import (
	"strconv"
	"strings"

	"github.com/padraicbc/parkgolf/models"
)

// ParseParInput validates par text while it is being typed: empty or a
// single digit.
func ParseParInput(raw string) (string, error) {
	if raw == "" {
		return raw, nil
	}
	if len(raw) != 1 || raw[0] < '0' || raw[0] > '9' {
		return "", ErrParDigit
	}
	return raw, nil
}

// NormalizePar turns committed par text into a par value. Anything that is
// not a positive integer becomes models.DefaultPar.
func NormalizePar(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return models.DefaultPar
	}
	return n
}

// buildSubCourses converts par text rows into lettered sub-courses.
// Missing holes get the default par.
func buildSubCourses(rows [][]string) ([]models.SubCourse, error) {
	if len(rows) < 1 || len(rows) > models.MaxSubCourses {
		return nil, ErrSubCourseCount
	}
	out := make([]models.SubCourse, len(rows))
	for i, row := range rows {
		if len(row) > models.HoleCount {
			return nil, ErrHoleIndex
		}
		sc := models.SubCourse{Name: models.SubCourseNames[i]}
		for h := range sc.Pars {
			raw := ""
			if h < len(row) {
				var err error
				if raw, err = ParseParInput(strings.TrimSpace(row[h])); err != nil {
					return nil, err
				}
			}
			sc.Pars[h] = NormalizePar(raw)
		}
		out[i] = sc
	}
	return out, nil
}
