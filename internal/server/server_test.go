package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/highlights-cli/internal/model"
	"github.com/sells-group/highlights-cli/internal/spatial"
)

type fakeService struct {
	result    *model.ProjectResult
	batch     *model.BatchResult
	list      []model.Highlight
	err       error
	lastID    string
	lastForce bool
}

func (f *fakeService) ProcessProject(_ context.Context, projectID string, force bool) (*model.ProjectResult, error) {
	f.lastID = projectID
	f.lastForce = force
	return f.result, f.err
}

func (f *fakeService) ProcessBatch(_ context.Context, projectIDs []string, _ int, _ bool) (*model.BatchResult, error) {
	return f.batch, f.err
}

func (f *fakeService) ListHighlights(_ context.Context, projectID string) ([]model.Highlight, error) {
	f.lastID = projectID
	return f.list, f.err
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := New(&fakeService{}, 0)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProcessSingle(t *testing.T) {
	svc := &fakeService{
		result: &model.ProjectResult{
			ProjectID:       "101",
			ProjectName:     "Skyline Towers",
			TotalHighlights: 3,
			ProcessedAt:     time.Now(),
		},
	}
	srv := New(svc, 0)

	rec := postJSON(t, srv.Router(), "/api/process-single", map[string]any{"project_id": "101", "force": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "101", svc.lastID)
	assert.True(t, svc.lastForce)

	var got model.ProjectResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Skyline Towers", got.ProjectName)
}

func TestProcessSingleValidation(t *testing.T) {
	srv := New(&fakeService{}, 0)

	rec := postJSON(t, srv.Router(), "/api/process-single", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/process-single", bytes.NewReader([]byte("not json")))
	rec2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestProcessSingleNotFound(t *testing.T) {
	svc := &fakeService{err: eris.Wrap(spatial.ErrProjectNotFound, "pipeline: load project 999")}
	srv := New(svc, 0)

	rec := postJSON(t, srv.Router(), "/api/process-single", map[string]any{"project_id": "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessSingleInternalError(t *testing.T) {
	svc := &fakeService{err: eris.New("db down")}
	srv := New(svc, 0)

	rec := postJSON(t, srv.Router(), "/api/process-single", map[string]any{"project_id": "101"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProcessMultiple(t *testing.T) {
	svc := &fakeService{
		batch: &model.BatchResult{TotalProjects: 2, ProcessedCount: 2},
	}
	srv := New(svc, 0)

	rec := postJSON(t, srv.Router(), "/api/process-multiple", map[string]any{"project_ids": []string{"101", "102"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.TotalProjects)
}

func TestProcessMultipleValidation(t *testing.T) {
	srv := New(&fakeService{}, 0)
	rec := postJSON(t, srv.Router(), "/api/process-multiple", map[string]any{"project_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListHighlights(t *testing.T) {
	svc := &fakeService{
		list: []model.Highlight{
			{ProjectID: "101", Type: "hospital", Name: "Fortis", Score: 90},
		},
	}
	srv := New(svc, 0)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/101/highlights", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "101", svc.lastID)

	var got struct {
		ProjectID  string            `json:"project_id"`
		Highlights []model.Highlight `json:"highlights"`
		Count      int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "Fortis", got.Highlights[0].Name)
}
