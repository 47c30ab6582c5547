package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_Counters(t *testing.T) {
	m := NewMetricsManager("brainrot-bot")
	m.ListingsCreatedTotal.Inc()
	m.ListingsDeletedTotal.WithLabelValues("sold").Inc()
	m.ListingsDeletedTotal.WithLabelValues("sold").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListingsCreatedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ListingsDeletedTotal.WithLabelValues("sold")))
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	m := NewMetricsManager("brainrot-bot")
	m.ReviewsSubmittedTotal.Inc()

	h := NewRouter(m.Registry, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "brainrot_bot_reviews_submitted_total 1"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HealthFailing(t *testing.T) {
	h := NewRouter(NewNopMetricsManager().Registry, func(context.Context) error { return errors.New("db down") })
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db down")
}

func TestNewServer_DisabledWithoutPort(t *testing.T) {
	assert.Nil(t, NewServer("", nil, logger.NewNop()))
}
