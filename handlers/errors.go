package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/parkgolf/course"
	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/records"
	"github.com/padraicbc/parkgolf/scorecard"
)

// httpError maps domain errors to status codes. Anything unknown is a
// storage failure.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, course.ErrNameRequired),
		errors.Is(err, course.ErrSubCourseCount),
		errors.Is(err, course.ErrParDigit),
		errors.Is(err, course.ErrHoleIndex),
		errors.Is(err, course.ErrSubCourseIndex),
		errors.Is(err, models.ErrInvalidScore),
		errors.Is(err, scorecard.ErrCellIndex),
		errors.Is(err, scorecard.ErrCourseIndex),
		errors.Is(err, scorecard.ErrPlayerIndex),
		errors.Is(err, scorecard.ErrSignature),
		errors.Is(err, scorecard.ErrNoSelection):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, course.ErrVenueNotFound),
		errors.Is(err, records.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, course.ErrVenueLimit),
		errors.Is(err, course.ErrBuiltInVenue),
		errors.Is(err, records.ErrNothingToSave),
		errors.Is(err, records.ErrNothingNew),
		errors.Is(err, scorecard.ErrCellLocked),
		errors.Is(err, scorecard.ErrNotYourTurn),
		errors.Is(err, scorecard.ErrNothingEntered):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
