package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFollowsReadiness(t *testing.T) {
	s := New(0)
	h := s.Handler()

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.JSONEq(t, `{"status":"not_ready"}`, rec.Body.String())
	}

	s.SetReady(true)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}
}

func TestWatch(t *testing.T) {
	s := New(0)
	var seen []bool
	s.Watch(func(ready bool) { seen = append(seen, ready) })
	s.SetReady(true)
	s.SetReady(false)

	require.Len(t, seen, 3)
	assert.Equal(t, []bool{false, true, false}, seen)
	assert.False(t, s.Ready())
}
