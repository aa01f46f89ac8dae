package infrastructure

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"profitgo/internal/domain"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"

	"golang.org/x/time/rate"
)

// SinkPayload is the body posted to the report sink.
type SinkPayload struct {
	Date    string                 `json:"date"`
	Count   int                    `json:"count"`
	Records []domain.HistoryRecord `json:"records"`
}

// implements domain.ReportSink over HTTP
type SinkClient struct {
	client      *http.Client
	sinkURL     string
	sinkSecret  string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

// creates a new sink client; ratePerSecond <= 0 disables throttling
func NewSinkClient(sinkURL, sinkSecret string, timeout time.Duration, ratePerSecond int, logger *logger.Logger, metrics *metrics.Metrics) *SinkClient {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	return &SinkClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		sinkURL:     sinkURL,
		sinkSecret:  sinkSecret,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(limit, 1),
	}
}

func (c *SinkClient) Export(ctx context.Context, records []domain.HistoryRecord, date time.Time) error {
	if c.sinkURL == "" {
		return domain.ErrSinkNotConfigured
	}

	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordSinkFailure("rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	payload, err := json.Marshal(SinkPayload{
		Date:    date.Format("2006-01-02"),
		Count:   len(records),
		Records: records,
	})
	if err != nil {
		c.metrics.RecordSinkFailure("json_marshal")
		return fmt.Errorf("failed to marshal export data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sinkURL, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordSinkFailure("request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.sinkSecret != "" {
		req.Header.Set("X-Signature", Sign(c.sinkSecret, payload))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordSinkFailure("network_error")
		return fmt.Errorf("failed to export data: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordSinkCall(fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("sink API returned status %d", resp.StatusCode)
	}

	c.metrics.RecordSinkCall("success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      c.sinkURL,
		"duration": duration,
		"records":  len(records),
		"date":     date.Format("2006-01-02"),
	}).Info("Successfully exported history")

	return nil
}

// Sign returns the hex HMAC-SHA256 of payload, sent as X-Signature.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
