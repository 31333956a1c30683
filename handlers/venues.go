package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type subCourseRequest struct {
	Pars []string `json:"pars"`
}

type createVenueRequest struct {
	Name    string             `json:"name"`
	Courses []subCourseRequest `json:"courses"`
}

type replaceParsRequest struct {
	Pars [][]string `json:"pars"`
}

type updateParRequest struct {
	Sub   int    `json:"sub"`
	Hole  int    `json:"hole"`
	Value string `json:"value"`
}

type userNameRequest struct {
	Name string `json:"name"`
}

type userNameResponse struct {
	Name string `json:"name"`
}

// Venues returns every venue.
func (h *Handler) Venues(c echo.Context) error {
	venues, err := h.venues.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, venues)
}

// CreateVenue adds a venue with its par table.
func (h *Handler) CreateVenue(c echo.Context) error {
	var req createVenueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pars := make([][]string, len(req.Courses))
	for i, sc := range req.Courses {
		pars[i] = sc.Pars
	}

	v, err := h.venues.Add(c.Request().Context(), req.Name, pars)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, v)
}

// ReplacePars saves the whole par table of a venue.
func (h *Handler) ReplacePars(c echo.Context) error {
	var req replaceParsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.venues.ReplacePars(c.Request().Context(), c.Param("id"), req.Pars)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

// UpdatePar saves one par cell.
func (h *Handler) UpdatePar(c echo.Context) error {
	var req updateParRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.venues.UpdatePar(c.Request().Context(), c.Param("id"), req.Sub, req.Hole, req.Value)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVenue removes a venue and its unsaved card. Records stay.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id := c.Param("id")
	if err := h.venues.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	h.play.Forget(id)
	return c.NoContent(http.StatusNoContent)
}

// UserName returns the display name.
func (h *Handler) UserName(c echo.Context) error {
	name, err := h.venues.UserName(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, userNameResponse{Name: name})
}

// SetUserName stores the display name.
func (h *Handler) SetUserName(c echo.Context) error {
	var req userNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	name, err := h.venues.SetUserName(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, userNameResponse{Name: name})
}
