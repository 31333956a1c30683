package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/parkgolf/course"
	"github.com/padraicbc/parkgolf/metrics"
	"github.com/padraicbc/parkgolf/play"
	"github.com/padraicbc/parkgolf/records"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	venues  *course.Registry
	play    *play.Manager
	records *records.Store
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

// New creates a Handler. m may be nil; loc is used to group and print
// record dates.
func New(venues *course.Registry, pm *play.Manager, recs *records.Store, m *metrics.Metrics, loc *time.Location) *Handler {
	return &Handler{venues: venues, play: pm, records: recs, metrics: m, loc: loc, now: time.Now}
}

// Register mounts the JSON API on e under /api.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/venues", h.Venues)
	api.POST("/venues", h.CreateVenue)
	api.PUT("/venues/:id/pars", h.ReplacePars)
	api.PATCH("/venues/:id/pars", h.UpdatePar)
	api.DELETE("/venues/:id", h.DeleteVenue)

	api.GET("/user", h.UserName)
	api.PUT("/user", h.SetUserName)

	p := api.Group("/play/:venueId")
	p.GET("", h.PlayView)
	p.POST("/select", h.Select)
	p.POST("/pad", h.Pad)
	p.POST("/score", h.SetScore)
	p.POST("/commit", h.Commit)
	p.POST("/cancel", h.Cancel)
	p.POST("/course", h.SwitchCourse)
	p.POST("/reset", h.Reset)
	p.PUT("/names", h.SetNames)
	p.PUT("/signatures/:player", h.SetSignature)
	p.DELETE("/signatures/:player", h.ClearSignature)
	p.POST("/save", h.SaveRound)

	api.GET("/records", h.Records)
	api.DELETE("/records", h.ClearRecords)
	api.GET("/records/grouped", h.GroupedRecords)
	api.GET("/records/export.csv", h.ExportCSV)
	api.GET("/records/export.xlsx", h.ExportXLSX)
	api.GET("/records/:id", h.Record)
	api.DELETE("/records/:id", h.DeleteRecord)

	api.GET("/stats", h.Stats)
	api.GET("/stats/:chart", h.Chart)
}
