package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/course"
	"github.com/padraicbc/parkgolf/export"
	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/play"
	"github.com/padraicbc/parkgolf/records"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	builtIns, err := course.LoadBuiltIns("")
	require.NoError(t, err)

	store := kv.NewMemoryStore()
	venues := course.NewRegistry(store, course.Options{MaxAdditional: 3, BuiltIns: builtIns}, zap.NewNop())
	require.NoError(t, venues.Seed(t.Context()))
	recs := records.NewStore(store, records.Options{Dedupe: true}, zap.NewNop())
	pm := play.NewManager(store, venues, recs, nil, zap.NewNop())

	h := New(venues, pm, recs, nil, time.UTC)
	h.now = func() time.Time { return time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC) }

	e := echo.New()
	h.Register(e)
	return &apiClient{t: t, e: e}
}

func (a *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sheetRows(t *testing.T, rec *httptest.ResponseRecorder) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	return rows
}

func (a *apiClient) addVenue(name string) models.Venue {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/venues", map[string]any{
		"name":    name,
		"courses": []map[string]any{{"pars": []string{"4", "4", "4", "4", "4", "4", "4", "4", "4"}}},
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Venue](a.t, rec)
}

func TestVenueEndpoints(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/api/venues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Venue](t, rec), 2)

	v := api.addVenue("올림픽")
	assert.Equal(t, "A", v.Courses[0].Name)

	rec = api.do(http.MethodPost, "/api/venues", map[string]any{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPatch, "/api/venues/"+v.ID+"/pars", map[string]any{"sub": 0, "hole": 1, "value": "5"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, decode[models.Venue](t, rec).Courses[0].Pars[1])

	rec = api.do(http.MethodPatch, "/api/venues/"+v.ID+"/pars", map[string]any{"sub": 0, "hole": 1, "value": "55"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPut, "/api/venues/"+v.ID+"/pars", map[string]any{"pars": [][]string{{"2", "2"}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, [9]int{2, 2, 3, 3, 3, 3, 3, 3, 3}, decode[models.Venue](t, rec).Courses[0].Pars)

	rec = api.do(http.MethodDelete, "/api/venues/builtin-arpia", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodDelete, "/api/venues/"+v.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodDelete, "/api/venues/"+v.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVenueLimit(t *testing.T) {
	api := newAPI(t)
	for i := 0; i < 3; i++ {
		api.addVenue("venue")
	}
	rec := api.do(http.MethodPost, "/api/venues", map[string]any{
		"name":    "one too many",
		"courses": []map[string]any{{"pars": []string{"3"}}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserName(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, course.DefaultUserName, decode[userNameResponse](t, rec).Name)

	rec = api.do(http.MethodPut, "/api/user", userNameRequest{Name: "영희"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, "영희", decode[userNameResponse](t, rec).Name)
}

func TestPlayFlow(t *testing.T) {
	api := newAPI(t)
	v := api.addVenue("올림픽")
	base := "/api/play/" + v.ID

	rec := api.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, base+"/select", selectRequest{Hole: 0, Player: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPost, base+"/pad", padRequest{Key: "3"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[play.View](t, rec)
	assert.Equal(t, 3, view.Totals[0])

	rec = api.do(http.MethodPost, base+"/commit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, base+"/select", selectRequest{Hole: 0, Player: 0})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = api.do(http.MethodPost, base+"/commit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, base+"/score", scoreRequest{Hole: 1, Player: 0, Value: "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPut, base+"/names", namesRequest{Names: []string{"민수"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "민수", decode[play.View](t, rec).PlayerNames[0])

	rec = api.do(http.MethodPut, base+"/signatures/0", signatureRequest{DataURL: "data:image/png;base64,AAA"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPut, base+"/signatures/x", signatureRequest{DataURL: "data:image/png;base64,AAA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do(http.MethodDelete, base+"/signatures/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[play.View](t, rec).Signatures[0])

	rec = api.do(http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[saveResponse](t, rec)
	assert.Equal(t, "올림픽", saved.Record.CourseName)

	rec = api.do(http.MethodPost, base+"/save", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "fresh card has nothing to save")

	rec = api.do(http.MethodGet, "/api/play/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsAndStats(t *testing.T) {
	api := newAPI(t)
	v := api.addVenue("올림픽 공원")
	base := "/api/play/" + v.ID

	for h := 0; h < models.HoleCount; h++ {
		rec := api.do(http.MethodPost, base+"/score", scoreRequest{Hole: h, Player: 0, Value: "4"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = api.do(http.MethodPost, base+"/commit", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := api.do(http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[saveResponse](t, rec).Record.ID

	rec = api.do(http.MethodGet, "/api/records", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]recordView](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, 36.0, list[0].Average)

	rec = api.do(http.MethodGet, "/api/records?q=nothing-like-this", nil)
	assert.Empty(t, decode[[]recordView](t, rec))

	rec = api.do(http.MethodGet, "/api/records/grouped", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[statsResponse](t, rec)
	require.Len(t, st.ByVenue, 1)
	assert.Equal(t, 36.0, st.ByVenue[0].Avg)
	require.Len(t, st.Recent, 1)
	assert.Equal(t, "올A", st.Recent[0].Label)

	for _, chart := range []string{"monthly", "venues", "recent", "plays"} {
		rec = api.do(http.MethodGet, "/api/stats/"+chart+".png", nil)
		require.Equal(t, http.StatusOK, rec.Code, chart)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	}
	rec = api.do(http.MethodGet, "/api/stats/pie.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(http.MethodGet, "/api/stats?n=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/records/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "golf_records_2025-05-03.csv")
	assert.True(t, strings.Contains(rec.Body.String(), "올림픽,36"))

	rec = api.do(http.MethodGet, "/api/records/export.csv?q=nothing-like-this", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "올림픽", "exports follow the search filter")
	assert.Contains(t, rec.Body.String(), "날짜")

	rec = api.do(http.MethodGet, "/api/records/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMIME, rec.Header().Get(echo.HeaderContentType))
	assert.Len(t, sheetRows(t, rec), 2)
	rec = api.do(http.MethodGet, "/api/records/export.xlsx?q=nothing-like-this", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, sheetRows(t, rec), 1, "only the header survives the filter")

	rec = api.do(http.MethodDelete, "/api/venues/"+v.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodGet, "/api/records/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code, "records outlive their venue")

	rec = api.do(http.MethodDelete, "/api/records/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodGet, "/api/records/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodDelete, "/api/records", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChartsOnFreshInstall(t *testing.T) {
	api := newAPI(t)
	for _, chart := range []string{"monthly", "venues", "recent", "plays"} {
		rec := api.do(http.MethodGet, "/api/stats/"+chart+".png", nil)
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", chart, rec.Body.String())
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	}
}
