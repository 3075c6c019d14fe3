package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Login(LoginSuccess)
	m.Login(LoginRejected)
	m.Login(LoginRejected)
	m.AuthDenied(http.StatusForbidden, "role")
	m.Registered()
	m.ObserveRequest(http.MethodGet, "/api/v1/notes/{id}", http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues(LoginRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authDenials.WithLabelValues("403", "role")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/notes/{id}", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Login(LoginSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `notes_auth_logins_total{outcome="success"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Login(LoginError)
		m.AuthDenied(http.StatusUnauthorized, "expired")
		m.Registered()
		m.ObserveRequest(http.MethodGet, "", http.StatusOK, time.Second)
	})
	assert.Nil(t, m.Registry())
}
