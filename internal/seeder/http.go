package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/bikelog/internal/domain/types"
	"github.com/okian/bikelog/pkg/logger"
	"github.com/shopspring/decimal"
)

// HTTPClient wraps http.Client with a timeout and JSON helpers.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON performs a GET and decodes a 200 response into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrService, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrService, path, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrService, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d: %s", ErrService, path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrService, path, err)
	}
	return nil
}

// postJSON posts body as JSON and returns the status and response body.
func (c *HTTPClient) postJSON(ctx context.Context, path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	out, err := readResponseBody(resp)
	return resp.StatusCode, out, err
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

// submitRecords posts subs to /api/records with a worker pool.
func submitRecords(ctx context.Context, cfg *Config, client *HTTPClient, subs []types.Submission, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting records", logger.Int("count", len(subs)), logger.Int("workers", cfg.Workers))

	var (
		submitted  int64
		successful int64
		failed     int64

		costMu sync.Mutex
		cost   = decimal.Zero

		reportMu   sync.Mutex
		lastReport time.Time
	)

	subChan := make(chan types.Submission, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				if ctx.Err() != nil {
					continue
				}
				rec, err := submitSingleRecord(ctx, client, sub)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "submission failed", logger.String("date", sub.Date), logger.Error(err))
				} else {
					atomic.AddInt64(&successful, 1)
					costMu.Lock()
					cost = cost.Add(sub.Cost)
					costMu.Unlock()
					if cfg.Verbose {
						log.Debug(ctx, "record stored", logger.String("date", rec.Date), logger.String("category", rec.Category))
					}
				}

				reportMu.Lock()
				if time.Since(lastReport) >= progressInterval {
					lastReport = time.Now()
					log.Info(ctx, "progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(subs)),
						logger.Int("failed", int(atomic.LoadInt64(&failed))))
				}
				reportMu.Unlock()
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.SuccessfulCost = cost
	log.Info(ctx, "submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed))
}

// submitSingleRecord posts one submission and expects 201 Created.
func submitSingleRecord(ctx context.Context, client *HTTPClient, sub types.Submission) (types.Record, error) {
	status, body, err := client.postJSON(ctx, "/api/records", sub)
	if err != nil {
		return types.Record{}, err
	}
	if status != http.StatusCreated {
		return types.Record{}, fmt.Errorf("%w: status %d: %s", ErrService, status, bytes.TrimSpace(body))
	}
	var resp types.SubmitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.Record{}, fmt.Errorf("%w: %w", ErrService, err)
	}
	return resp.Record, nil
}
