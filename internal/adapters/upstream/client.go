// Package upstream implements the shared HTTP client used to talk to the
// gateway's backend services: request shaping, rate limiting, retries and
// the mapping of upstream responses to sentinel error kinds.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sensorhub-io/argus/pkg/logger"
	"github.com/sensorhub-io/argus/pkg/metrics"
)

// Default client tuning constants.
const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 2
	defaultBackoff = 100 * time.Millisecond
)

// Client issues JSON requests against one backend service.
type Client struct {
	service string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	retries int
	backoff time.Duration
	log     logger.Logger
}

// New creates a client for the named service rooted at baseURL.
// The service name labels metrics and log entries.
func New(service, baseURL string, opts ...Option) *Client {
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
		retries: defaultRetries,
		backoff: defaultBackoff,
		log:     logger.Named(service),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// detailBody mirrors the error envelope the backend services return.
type detailBody struct {
	Detail string `json:"detail"`
}

// GetJSON performs a GET and decodes the 200 response into out.
// Transient failures are retried with exponential backoff.
func (c *Client) GetJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out, true)
}

// PostJSON performs a POST with a JSON body and decodes the 200 response
// into out. POSTs are never retried; the computation may not be idempotent.
func (c *Client) PostJSON(ctx context.Context, op, path string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, query, payload, out, false)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body []byte, out any, retriable bool) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	attempts := 1
	if retriable {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			metrics.RecordUpstreamRetry()
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		lastErr = c.once(ctx, op, method, target, body, out)
		if lastErr == nil {
			return nil
		}
		// Only transient failures are worth another attempt.
		if !errors.Is(lastErr, ErrUnavailable) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, op, method, target string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(callCtx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	durationMs := float64(time.Since(start).Milliseconds())
	metrics.RecordUpstreamRequestDuration(c.service, op, durationMs)

	if err != nil {
		metrics.RecordUpstreamRequest(c.service, op, "dial_error")
		metrics.RecordUpstreamError(c.service, "unavailable")
		c.log.Warn(ctx, "upstream unreachable",
			logger.String("operation", op),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, c.service, op, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(c.service, op, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return c.statusError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamError(c.service, "decode")
		return fmt.Errorf("%w: decode %s response: %w", ErrUpstream, op, err)
	}
	return nil
}

// statusError maps a non-200 upstream response to a sentinel kind, carrying
// the upstream detail message when one is present.
func (c *Client) statusError(op string, resp *http.Response) error {
	detail := http.StatusText(resp.StatusCode)
	var db detailBody
	if err := json.NewDecoder(resp.Body).Decode(&db); err == nil && db.Detail != "" {
		detail = db.Detail
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		kind = ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		kind = ErrBadRequest
	case resp.StatusCode == http.StatusServiceUnavailable:
		kind = ErrUnavailable
	default:
		kind = ErrUpstream
	}
	metrics.RecordUpstreamError(c.service, errorKind(kind))
	return fmt.Errorf("%w: %s %s: %s", kind, c.service, op, detail)
}

func errorKind(kind error) string {
	switch kind {
	case ErrNotFound:
		return "not_found"
	case ErrBadRequest:
		return "bad_request"
	case ErrUnavailable:
		return "unavailable"
	default:
		return "upstream"
	}
}
