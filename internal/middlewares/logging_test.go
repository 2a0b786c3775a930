package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core).Sugar()

	var reqID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID = GetRequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	rr := httptest.NewRecorder()
	LoggingMiddleware(log)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/todos?page=2", nil))

	assert.NotEmpty(t, reqID)
	assert.Equal(t, reqID, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "request handled", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, reqID, fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(len("short and stout")), fields["response_size"])
}

func TestGetRequestIDFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestIDFromContext(r.Context()))
}
