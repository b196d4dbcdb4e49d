package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuhub/internal/domain/importing"
	"menuhub/internal/ports"
	"menuhub/internal/usecase/restaurantimport"
)

type fakeService struct {
	result   restaurantimport.Result
	imported []restaurantimport.ImportInput
	listed   []restaurantimport.ListAuditLogsInput
	audits   map[uint64]restaurantimport.AuditLogView
}

func (f *fakeService) Import(_ context.Context, input restaurantimport.ImportInput) (restaurantimport.Result, error) {
	f.imported = append(f.imported, input)
	return f.result, nil
}

func (f *fakeService) GetAuditLog(_ context.Context, id uint64) (restaurantimport.AuditLogView, error) {
	view, ok := f.audits[id]
	if !ok {
		return restaurantimport.AuditLogView{}, fmt.Errorf("%w: id=%d", ports.ErrAuditLogNotFound, id)
	}
	return view, nil
}

func (f *fakeService) ListAuditLogs(_ context.Context, input restaurantimport.ListAuditLogsInput) ([]restaurantimport.AuditLogView, error) {
	f.listed = append(f.listed, input)
	if input.Status != "" {
		if _, err := importing.ParseStatus(input.Status); err != nil {
			return nil, err
		}
	}
	out := []restaurantimport.AuditLogView{}
	for _, view := range f.audits {
		out = append(out, view)
	}
	return out, nil
}

func (f *fakeService) LatestAuditLog(context.Context) (restaurantimport.AuditLogView, error) {
	var latest restaurantimport.AuditLogView
	for id, view := range f.audits {
		if id > latest.ID {
			latest = view
		}
	}
	if latest.ID == 0 {
		return restaurantimport.AuditLogView{}, ports.ErrAuditLogNotFound
	}
	return latest, nil
}

func newTestRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(svc, Options{MaxUploadBytes: 1 << 20})
}

func uploadRequest(t *testing.T, fileName string, contentType string, body string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateImportRequiresFile(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/imports", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No file provided", body["error"])
}

func TestCreateImportRejectsNonJSONFile(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.txt", "text/plain", "not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type", decodeBody(t, rec)["error"])
}

func TestCreateImportRejectsMalformedJSON(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.json", "application/json", `{"restaurants": [`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid JSON file", body["error"])
	assert.NotEmpty(t, body["details"])
	assert.Empty(t, svc.imported)
}

func TestCreateImportReturnsResult(t *testing.T) {
	duration := 0.25
	svc := &fakeService{result: restaurantimport.Result{
		Success:    true,
		Summary:    "Processed 1 records with 0 errors",
		Stats:      &restaurantimport.Stats{Restaurants: restaurantimport.Counters{Created: 1}},
		Logs:       []restaurantimport.LogEntry{{Timestamp: "2026-01-01 00:00:00", Level: restaurantimport.LevelInfo, Message: "ok"}},
		AuditLogID: 7,
		Duration:   &duration,
	}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "restaurant_data.json", "application/octet-stream", `{"restaurants": [{"name": "Cafe A"}]}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Processed 1 records with 0 errors", body["summary"])
	assert.Equal(t, float64(7), body["audit_log_id"])
	assert.Equal(t, 0.25, body["duration"])
	assert.NotEmpty(t, body["timestamp"])
	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, stats, "menu_items")

	require.Len(t, svc.imported, 1)
	assert.Equal(t, "restaurant_data.json", svc.imported[0].SourceName)
	assert.Contains(t, svc.imported[0].Document, "restaurants")
}

func TestCreateImportReportsRunFailure(t *testing.T) {
	svc := &fakeService{result: restaurantimport.Result{
		Success:    false,
		Error:      "import restaurant \"Broken\": invalid record",
		Logs:       []restaurantimport.LogEntry{},
		AuditLogID: 3,
	}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "data.json", "application/json", `{"restaurants": []}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "stats")
	assert.NotContains(t, body, "summary")
	assert.Equal(t, float64(3), body["audit_log_id"])
}

func TestAuditEndpoints(t *testing.T) {
	svc := &fakeService{audits: map[uint64]restaurantimport.AuditLogView{
		1: {ID: 1, Status: "completed", ImportType: importing.TypeRestaurants},
		2: {ID: 2, Status: "failed", ImportType: importing.TypeRestaurants},
	}}
	router := newTestRouter(svc)

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{name: "show", path: "/api/imports/1", status: http.StatusOK},
		{name: "show missing", path: "/api/imports/99", status: http.StatusNotFound},
		{name: "show bad id", path: "/api/imports/abc", status: http.StatusBadRequest},
		{name: "latest", path: "/api/imports/latest", status: http.StatusOK},
		{name: "list", path: "/api/imports?status=completed&limit=5", status: http.StatusOK},
		{name: "list bad status", path: "/api/imports?status=bogus", status: http.StatusBadRequest},
		{name: "list bad limit", path: "/api/imports?limit=-1", status: http.StatusBadRequest},
		{name: "health", path: "/health", status: http.StatusOK},
		{name: "unknown route", path: "/nope", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/latest", nil))
	assert.Equal(t, float64(2), decodeBody(t, rec)["id"])

	require.NotEmpty(t, svc.listed)
	assert.Equal(t, restaurantimport.ListAuditLogsInput{Status: "completed", Limit: 5}, svc.listed[0])
}

func TestLatestWithoutRuns(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports/latest", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found", decodeBody(t, rec)["error"])
}
