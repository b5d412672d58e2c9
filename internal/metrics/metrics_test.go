package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/disks", 200, nil, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/disks", 200, nil, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/disks", 0, errors.New("refused"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/disks", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/disks", "error")))
}

func TestApplianceUp(t *testing.T) {
	m := New()
	m.SetApplianceUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ApplianceUp))
	m.SetApplianceUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ApplianceUp))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Actions.WithLabelValues("reboot").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `zpanel_system_actions_total{command="reboot"} 1`)
}
