package handlers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/parkgolf/export"
	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/stats"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type recordView struct {
	models.GameRecord
	Average float64      `json:"average"`
	Rating  stats.Rating `json:"rating"`
}

func newRecordView(r models.GameRecord) recordView {
	avg := stats.RecordAverage(r)
	return recordView{GameRecord: r, Average: avg, Rating: stats.RateAverage(avg)}
}

// Records lists saved rounds, newest first. Query q filters by venue
// name or date.
func (h *Handler) Records(c echo.Context) error {
	list, err := h.records.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	list = stats.Filter(list, c.QueryParam("q"), h.loc)

	result := make([]recordView, len(list))
	for i, r := range list {
		result[i] = newRecordView(r)
	}
	return c.JSON(http.StatusOK, result)
}

// GroupedRecords lists saved rounds bucketed by month and day.
func (h *Handler) GroupedRecords(c echo.Context) error {
	list, err := h.records.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	list = stats.Filter(list, c.QueryParam("q"), h.loc)
	return c.JSON(http.StatusOK, stats.GroupByMonthAndDate(list, h.loc))
}

// Record returns one saved round.
func (h *Handler) Record(c echo.Context) error {
	r, err := h.records.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newRecordView(r))
}

// DeleteRecord removes one saved round.
func (h *Handler) DeleteRecord(c echo.Context) error {
	if err := h.records.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	h.metrics.RecordsDeleted(1)
	return c.NoContent(http.StatusNoContent)
}

// ClearRecords removes every saved round.
func (h *Handler) ClearRecords(c echo.Context) error {
	ctx := c.Request().Context()
	list, err := h.records.List(ctx)
	if err != nil {
		return httpError(err)
	}
	if err := h.records.Clear(ctx); err != nil {
		return httpError(err)
	}
	h.metrics.RecordsDeleted(len(list))
	return c.NoContent(http.StatusNoContent)
}

// ExportCSV downloads the record table as CSV. Query q filters like Records.
func (h *Handler) ExportCSV(c echo.Context) error {
	list, err := h.records.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	list = stats.Filter(list, c.QueryParam("q"), h.loc)
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, list, h.loc); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.attachment(c, "csv", "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX downloads the record table as a workbook. Query q filters like
// Records.
func (h *Handler) ExportXLSX(c echo.Context) error {
	list, err := h.records.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	list = stats.Filter(list, c.QueryParam("q"), h.loc)
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, list, h.loc); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.attachment(c, "xlsx", xlsxMIME, buf.Bytes())
}

func (h *Handler) attachment(c echo.Context, ext, mime string, body []byte) error {
	name := export.FileName(h.now().In(h.loc), ext)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, mime, body)
}
