package runevents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/implementations/reporter"
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/require"
)

func TestRunEventsStreamsPublishedReports(t *testing.T) {
	// Setup ---
	server := sse.New()
	defer server.Close()
	server.CreateStream(reporter.RUNS_STREAM)
	server.Publish(reporter.RUNS_STREAM, &sse.Event{Data: []byte(`{"trigger":"tick"}`)})
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/scheduler/events?stream=other", nil).WithContext(ctx)
	rw := httptest.NewRecorder()

	// Exercise ---
	New(logging.NewFakeLogger(), server).ServeHTTP(rw, req)

	// Verify ---
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, "text/event-stream", rw.Header().Get("Content-Type"))
	require.Contains(t, rw.Body.String(), `data: {"trigger":"tick"}`)
}

func TestRunEventsWithoutStream(t *testing.T) {
	server := sse.New()
	defer server.Close()
	rw := httptest.NewRecorder()

	New(logging.NewFakeLogger(), server).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/scheduler/events", nil))

	require.Equal(t, http.StatusInternalServerError, rw.Code)
}
