package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// KeepAlive pings the service's own public URL so free hosting tiers do not
// put it to sleep.
type KeepAlive struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

func NewKeepAlive(baseURL string, interval time.Duration, logger *zap.Logger) *KeepAlive {
	return &KeepAlive{
		url:      strings.TrimRight(baseURL, "/") + "/healthz",
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Run pings every interval until ctx is done.
func (k *KeepAlive) Run(ctx context.Context) {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	k.logger.Info("Keep-alive started",
		zap.String("url", k.url),
		zap.Duration("interval", k.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := k.ping(ctx); err != nil {
				k.logger.Warn("Keep-alive ping failed", zap.Error(err))
			}
		}
	}
}

func (k *KeepAlive) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return err
	}
	resp, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	k.logger.Debug("Keep-alive ping", zap.Int("status", resp.StatusCode))
	return nil
}
