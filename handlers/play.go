package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/play"
)

type selectRequest struct {
	Hole   int  `json:"hole"`
	Player int  `json:"player"`
	Double bool `json:"double"`
}

type padRequest struct {
	Key string `json:"key"`
}

type scoreRequest struct {
	Hole   int    `json:"hole"`
	Player int    `json:"player"`
	Value  string `json:"value"`
	Double bool   `json:"double"`
}

type courseRequest struct {
	Index int `json:"index"`
}

type resetRequest struct {
	All bool `json:"all"`
}

type namesRequest struct {
	Names []string `json:"names"`
}

type signatureRequest struct {
	DataURL string `json:"dataUrl"`
}

type saveResponse struct {
	Record models.GameRecord `json:"record"`
	View   play.View         `json:"view"`
}

// PlayView returns the card of a venue.
func (h *Handler) PlayView(c echo.Context) error {
	return h.respond(c)(h.play.View(c.Request().Context(), c.Param("venueId")))
}

// Select activates a cell.
func (h *Handler) Select(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.Select(c.Request().Context(), c.Param("venueId"), req.Hole, req.Player, req.Double))
}

// Pad applies a number-pad key to the selected cell.
func (h *Handler) Pad(c echo.Context) error {
	var req padRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.Pad(c.Request().Context(), c.Param("venueId"), req.Key))
}

// SetScore writes one cell without going through the pad.
func (h *Handler) SetScore(c echo.Context) error {
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.SetScore(c.Request().Context(), c.Param("venueId"), req.Hole, req.Player, req.Value, req.Double))
}

// Commit advances the turns of players who entered a score.
func (h *Handler) Commit(c echo.Context) error {
	return h.respond(c)(h.play.Commit(c.Request().Context(), c.Param("venueId")))
}

// Cancel closes the number pad.
func (h *Handler) Cancel(c echo.Context) error {
	return h.respond(c)(h.play.Cancel(c.Request().Context(), c.Param("venueId")))
}

// SwitchCourse changes the active sub-course.
func (h *Handler) SwitchCourse(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.SwitchCourse(c.Request().Context(), c.Param("venueId"), req.Index))
}

// Reset clears the active sub-course or, with all, the whole card.
func (h *Handler) Reset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.Reset(c.Request().Context(), c.Param("venueId"), req.All))
}

// SetNames replaces the player names.
func (h *Handler) SetNames(c echo.Context) error {
	var req namesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.SetNames(c.Request().Context(), c.Param("venueId"), req.Names))
}

// SetSignature stores a player's signature image.
func (h *Handler) SetSignature(c echo.Context) error {
	player, err := strconv.Atoi(c.Param("player"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "player must be a number")
	}
	var req signatureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c)(h.play.SetSignature(c.Request().Context(), c.Param("venueId"), player, req.DataURL))
}

// ClearSignature removes a player's signature image.
func (h *Handler) ClearSignature(c echo.Context) error {
	player, err := strconv.Atoi(c.Param("player"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "player must be a number")
	}
	return h.respond(c)(h.play.ClearSignature(c.Request().Context(), c.Param("venueId"), player))
}

// SaveRound stores the played sub-courses as a record.
func (h *Handler) SaveRound(c echo.Context) error {
	rec, view, err := h.play.SaveRound(c.Request().Context(), c.Param("venueId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, saveResponse{Record: rec, View: view})
}

func (h *Handler) respond(c echo.Context) func(play.View, error) error {
	return func(view play.View, err error) error {
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, view)
	}
}
