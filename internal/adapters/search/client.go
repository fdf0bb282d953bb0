// Package search forwards manual and diagnosis lookups to an external
// document-search API and caches the answers per query.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/okian/bikelog/internal/domain/cache"
	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/pkg/logger"
	"github.com/okian/bikelog/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultCacheSize = 256
	maxResponseBytes = 1 << 20
	bodyExcerpt      = 512
)

// Client calls the search endpoint. Identical queries are answered from the
// cache until ClearCache; concurrent identical misses share one upstream call.
type Client struct {
	endpoint  string
	apiKey    string
	timeout   time.Duration
	cacheSize int
	http      *http.Client
	logger    logger.Logger

	cache cache.Cache[Query, Result]
	group singleflight.Group

	// gen is bumped by ClearCache; answers fetched under an older
	// generation are returned but never stored.
	mu  sync.Mutex
	gen uint64
}

// New creates a Client. Missing credentials are not an error until Search is called.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:   defaultTimeout,
		cacheSize: defaultCacheSize,
		http:      &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = cache.New[Query, Result](cache.WithMaxSize(c.cacheSize))
	return c
}

// Enabled reports whether both the endpoint and the api key are configured.
func (c *Client) Enabled() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// Search returns the answer for q.
func (c *Client) Search(ctx context.Context, q Query) (Result, error) {
	const op = "search"
	metrics.RecordSearchRequest()
	if !c.Enabled() {
		return nil, faults.Wrap(op, faults.ErrConfiguration, ErrMissingCredentials)
	}

	q = q.Normalize()
	if res, ok := c.cache.Get(ctx, q); ok {
		metrics.RecordSearchCacheHit()
		return res, nil
	}
	metrics.RecordSearchCacheMiss()

	gen := c.generation()
	key := strconv.FormatUint(gen, 10) + "\x00" + q.Keyword + "\x00" + q.Model + "\x00" + q.Symptom
	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that gives up must not fail the others waiting on this call.
		res, err := c.call(context.WithoutCancel(ctx), q)
		if err != nil {
			return nil, err
		}
		c.store(ctx, gen, q, res)
		return res, nil
	})
	if err != nil {
		if kind := faults.KindOf(err); kind != nil {
			metrics.RecordErrorByKind("search", kind.Error())
		}
		return nil, err
	}
	return v.(Result), nil
}

// ClearCache drops every cached answer. Calls still in flight do not
// repopulate the cache, and the next identical query goes upstream.
func (c *Client) ClearCache(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	c.cache.Clear(ctx)
	c.mu.Unlock()
	metrics.RecordSearchCacheClear()
	metrics.UpdateSearchCacheSize(0)
	if c.logger != nil {
		c.logger.Info(ctx, "search cache cleared")
	}
}

func (c *Client) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Client) store(ctx context.Context, gen uint64, q Query, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.cache.Put(ctx, q, res)
	metrics.UpdateSearchCacheSize(c.cache.Len())
}

// CacheLen returns the number of cached answers.
func (c *Client) CacheLen() int {
	return c.cache.Len()
}

// CacheStats returns cache hit and miss counts.
func (c *Client) CacheStats() (hits, misses int64) {
	return c.cache.Stats()
}

type requestBody struct {
	Prompt  string         `json:"prompt"`
	Context requestContext `json:"context"`
}

type requestContext struct {
	Keyword string `json:"keyword"`
	Model   string `json:"model"`
	Symptom string `json:"symptom"`
}

func (c *Client) call(ctx context.Context, q Query) (Result, error) {
	const op = "search.call"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(requestBody{
		Prompt:  q.Prompt(),
		Context: requestContext{Keyword: q.Keyword, Model: q.Model, Symptom: q.Symptom},
	})
	if err != nil {
		return nil, faults.Wrap(op, faults.ErrSearch, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, faults.Wrap(op, faults.ErrConfiguration, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(start, metrics.StatusError)
		if isTimeout(err) {
			return nil, faults.WrapKinds(op, fmt.Errorf("no answer within %s: %w", c.timeout, err), faults.ErrSearch, faults.ErrTimeout)
		}
		return nil, faults.Wrap(op, faults.ErrSearch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observe(start, metrics.StatusError)
		if isTimeout(err) {
			return nil, faults.WrapKinds(op, err, faults.ErrSearch, faults.ErrTimeout)
		}
		return nil, faults.Wrap(op, faults.ErrSearch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(start, metrics.StatusError)
		return nil, faults.Wrap(op, faults.ErrSearch, &StatusError{Code: resp.StatusCode, Body: excerpt(body)})
	}
	c.observe(start, metrics.StatusOK)
	if c.logger != nil {
		c.logger.Debug(ctx, "search answered",
			logger.Int("status", resp.StatusCode),
			logger.Int("bytes", len(body)),
			logger.Duration("elapsed", time.Since(start)))
	}
	return decodeResult(body), nil
}

func (c *Client) observe(start time.Time, status string) {
	metrics.RecordSearchUpstream(status, float64(time.Since(start).Microseconds())/1000)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func excerpt(body []byte) string {
	if len(body) <= bodyExcerpt {
		return string(body)
	}
	return string(body[:bodyExcerpt]) + "..."
}
