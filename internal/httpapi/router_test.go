package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/events"
)

func testDeps() Deps {
	var cfgVal, searchStatus, batchStatus atomic.Value
	cfgVal.Store(config.Config{})
	searchStatus.Store(SearchStatus{})
	batchStatus.Store(BatchScoreStatus{})

	log := logrus.New()
	log.SetOutput(io.Discard)

	return Deps{
		Hub:          events.NewHub(),
		Log:          log,
		CfgVal:       &cfgVal,
		SearchStatus: &searchStatus,
		BatchStatus:  &batchStatus,
	}
}

func TestMuxMethodNotAllowed(t *testing.T) {
	mux := NewMux(testDeps())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestJobsDispatchUnknownSubresource(t *testing.T) {
	mux := NewMux(testDeps())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/abc/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/abc/status/extra", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobsDispatchMethodMismatch(t *testing.T) {
	mux := NewMux(testDeps())

	// status is PATCH-only
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/abc/status", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// bare id rejects POST
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/abc", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	mux := NewMux(testDeps())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestBatchStatusEndpoint(t *testing.T) {
	mux := NewMux(testDeps())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/score/batch/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)
}
