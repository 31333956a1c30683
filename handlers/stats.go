package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/parkgolf/export"
	"github.com/padraicbc/parkgolf/stats"
)

type statsResponse struct {
	Monthly    []stats.Average    `json:"monthly"`
	ByVenue    []stats.Average    `json:"byVenue"`
	Recent     []stats.RoundPoint `json:"recent"`
	PlayCounts []stats.Count      `json:"playCounts"`
}

// Stats returns every statistics series. Query n sets the length of the
// recent-rounds series.
func (h *Handler) Stats(c echo.Context) error {
	n, err := recentCount(c)
	if err != nil {
		return err
	}
	list, err := h.records.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, statsResponse{
		Monthly:    stats.MonthlyAverage(list, h.loc),
		ByVenue:    stats.ByVenueAverage(list),
		Recent:     stats.RecentRoundsSeries(list, n),
		PlayCounts: stats.PlayCounts(list),
	})
}

// Chart renders one statistics series as PNG: monthly, venues, recent
// or plays.
func (h *Handler) Chart(c echo.Context) error {
	name := strings.TrimSuffix(c.Param("chart"), ".png")
	n, err := recentCount(c)
	if err != nil {
		return err
	}
	list, err := h.records.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	var png []byte
	switch name {
	case "monthly":
		png, err = export.AverageChart("Monthly average", stats.MonthlyAverage(list, h.loc), export.DefaultPalette)
	case "venues":
		png, err = export.AverageChart("Average by venue", stats.ByVenueAverage(list), export.DefaultPalette)
	case "recent":
		png, err = export.RecentChart("Recent rounds", stats.RecentRoundsSeries(list, n), export.DefaultPalette)
	case "plays":
		png, err = export.PlayCountChart("Rounds per venue", stats.PlayCounts(list), export.DefaultPalette)
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+name)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func recentCount(c echo.Context) (int, error) {
	raw := c.QueryParam("n")
	if raw == "" {
		return stats.DefaultRecentRounds, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "n must be a positive number")
	}
	return n, nil
}
