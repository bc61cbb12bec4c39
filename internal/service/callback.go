package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/pkg/batcher"
)

type callbackJob struct {
	url     string
	reading *model.Reading
}

// CallbackDispatcher delivers finished readings to caller-supplied URLs.
// Delivery is fire-and-forget: failures are logged and never surfaced to the
// original caller, and delivery never blocks the primary response.
type CallbackDispatcher struct {
	batch  *batcher.Batcher[callbackJob]
	client *http.Client
	logger *zap.Logger
}

// NewCallbackDispatcher builds a dispatcher flushing up to flushSize queued
// callbacks every flushInterval, paced at rps outbound posts per second.
func NewCallbackDispatcher(logger *zap.Logger, flushSize int, flushInterval time.Duration, rps int) *CallbackDispatcher {
	d := &CallbackDispatcher{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.Named("callbacks"),
	}
	d.batch = batcher.New(d.logger, d.flush, flushSize, flushInterval, rps)
	return d
}

// Start begins background delivery.
func (d *CallbackDispatcher) Start(ctx context.Context) {
	d.batch.Start(ctx)
}

// Stop flushes remaining callbacks and stops the background loop.
func (d *CallbackDispatcher) Stop() {
	d.batch.Stop()
}

// Enqueue queues a reading for delivery; a full or stopped queue drops it.
func (d *CallbackDispatcher) Enqueue(ctx context.Context, url string, reading *model.Reading) {
	if err := d.batch.Add(ctx, callbackJob{url: url, reading: reading}); err != nil {
		d.logger.Warn("callback dropped", zap.String("url", url), zap.Error(err))
	}
}

func (d *CallbackDispatcher) flush(ctx context.Context, jobs []callbackJob) error {
	for _, job := range jobs {
		d.post(ctx, job)
	}
	// Per-job failures are logged only; a batch never fails.
	return nil
}

func (d *CallbackDispatcher) post(ctx context.Context, job callbackJob) {
	body, err := json.Marshal(job.reading)
	if err != nil {
		d.logger.Error("callback encode failed", zap.String("url", job.url), zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.url, bytes.NewReader(body))
	if err != nil {
		d.logger.Warn("callback request build failed", zap.String("url", job.url), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("callback delivery failed", zap.String("url", job.url), zap.Error(err))
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		d.logger.Warn("callback rejected by receiver",
			zap.String("url", job.url),
			zap.Int("status", resp.StatusCode),
		)
	}
}
