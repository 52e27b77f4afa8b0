package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"queendoctor/pkg/kafka"
)

// Metrics counts publish outcomes for the health endpoint.
type Metrics struct {
	published     atomic.Int64
	failed        atomic.Int64
	durationTotal atomic.Int64 // nanoseconds
}

type MetricsSnapshot struct {
	Published    int64   `json:"published"`
	Failed       int64   `json:"failed"`
	AvgPublishMs float64 `json:"avg_publish_ms"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	published := m.published.Load()
	failed := m.failed.Load()
	snap := MetricsSnapshot{Published: published, Failed: failed}
	if total := published + failed; total > 0 {
		snap.AvgPublishMs = float64(m.durationTotal.Load()) / float64(total) / float64(time.Millisecond)
	}
	return snap
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.durationTotal.Add(int64(time.Since(start)))
		if err != nil {
			m.failed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}
