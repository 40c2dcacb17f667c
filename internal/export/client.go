// Package export downloads the rendered report PDF from the report API and
// saves it next to the user's other exports.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/csheth/indicure/internal/workflow"
)

const (
	Endpoint        = "/api/report/pdf"
	DefaultBaseURL  = "http://127.0.0.1:8000"
	MinPayloadBytes = 500

	// FailureNotice is the only failure text shown to the user.
	FailureNotice = "Could not generate PDF. Check backend logs and the debug log."

	excerptLimit       = 512
	defaultHTTPTimeout = 30 * time.Second
)

var (
	// ErrNetworkFailure covers transport errors and non-2xx responses.
	ErrNetworkFailure = errors.New("pdf request failed")
	// ErrEmptyOrTruncatedPayload is returned for 2xx bodies under MinPayloadBytes.
	ErrEmptyOrTruncatedPayload = errors.New("pdf response looks empty or too small")
)

// RetryConfig bounds the exponential backoff around a download.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

func (rc RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialDelay
	b.MaxInterval = rc.MaxDelay
	b.Multiplier = rc.Multiplier
	b.MaxElapsedTime = 0
	retries := rc.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Client fetches report PDFs.
type Client struct {
	baseURL string
	http    *http.Client
	retry   RetryConfig
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func WithRetry(rc RetryConfig) Option {
	return func(c *Client) { c.retry = rc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// NewClient targets baseURL, falling back to DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		retry:   DefaultRetryConfig(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// ReportURL is the download URL for cfg.
func (c *Client) ReportURL(cfg workflow.RunConfig) string {
	qs := url.Values{}
	qs.Set("mode", string(cfg.Mode))
	qs.Set("geo", string(cfg.Geography))
	return c.baseURL + Endpoint + "?" + qs.Encode()
}

// Fetch downloads the PDF for cfg. Transport errors and 5xx responses are
// retried; 4xx responses and undersized bodies fail at once.
func (c *Client) Fetch(ctx context.Context, cfg workflow.RunConfig) ([]byte, error) {
	target := c.ReportURL(cfg)
	var data []byte
	attempt := 0
	op := func() error {
		attempt++
		body, err := c.fetchOnce(ctx, target)
		if err != nil {
			return err
		}
		data = body
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("pdf request retrying",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	err := backoff.RetryNotify(op, c.retry.backOff(ctx), notify)
	if err != nil {
		if !errors.Is(err, ErrNetworkFailure) && !errors.Is(err, ErrEmptyOrTruncatedPayload) {
			err = fmt.Errorf("%w: %v", ErrNetworkFailure, err)
		}
		c.log.Error("pdf request failed", zap.String("url", target), zap.Int("attempts", attempt), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (c *Client) fetchOnce(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrNetworkFailure, err))
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrNetworkFailure, err))
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, excerptLimit))
		err := fmt.Errorf("%w: %s (%s)", ErrNetworkFailure, resp.Status, strings.TrimSpace(string(excerpt)))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetworkFailure, err)
	}
	if len(body) < MinPayloadBytes {
		return nil, backoff.Permanent(fmt.Errorf("%w: got %d bytes", ErrEmptyOrTruncatedPayload, len(body)))
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		c.log.Warn("pdf response missing header", zap.String("url", target), zap.String("content_type", resp.Header.Get("Content-Type")))
	}
	return body, nil
}

// FileName is the saved name for cfg's report.
func FileName(cfg workflow.RunConfig) string {
	return fmt.Sprintf("IndiCure_Ranolazine_HFpEF_%s_%s.pdf", cfg.Geography, cfg.Mode)
}
