package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkamiddleware "queendoctor/pkg/kafka/middleware"
	"queendoctor/pkg/logger"
)

type fakePinger struct {
	err      error
	deadline bool
}

func (p *fakePinger) Ping(ctx context.Context) error {
	_, p.deadline = ctx.Deadline()
	return p.err
}

type fixedMetrics kafkamiddleware.MetricsSnapshot

func (m fixedMetrics) Snapshot() kafkamiddleware.MetricsSnapshot {
	return kafkamiddleware.MetricsSnapshot(m)
}

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	router := httprouter.New()
	h.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoot(t *testing.T) {
	rec := serve(NewHealthHandler(&fakePinger{}, nil, logger.Discard()), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "App is running...", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestHealth(t *testing.T) {
	t.Run("without events", func(t *testing.T) {
		rec := serve(NewHealthHandler(&fakePinger{}, nil, logger.Discard()), "/health")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("with event counters", func(t *testing.T) {
		metrics := fixedMetrics{Published: 3, Failed: 1, AvgPublishMs: 2.5}
		rec := serve(NewHealthHandler(&fakePinger{}, metrics, logger.Discard()), "/health")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","events":{"published":3,"failed":1,"avg_publish_ms":2.5}}`, rec.Body.String())
	})

	t.Run("does not touch the database", func(t *testing.T) {
		rec := serve(NewHealthHandler(&fakePinger{err: errors.New("down")}, nil, logger.Discard()), "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestReady(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		pinger := &fakePinger{}
		rec := serve(NewHealthHandler(pinger, nil, logger.Discard()), "/ready")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready","database":"ok"}`, rec.Body.String())
		assert.True(t, pinger.deadline)
	})

	t.Run("database down", func(t *testing.T) {
		rec := serve(NewHealthHandler(&fakePinger{err: errors.New("no reachable servers")}, nil, logger.Discard()), "/ready")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","database":"error"}`, rec.Body.String())
	})
}
