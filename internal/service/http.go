package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dbakhtin/socialsync/internal/logging"
)

// TokenSource supplies the current session token, empty when signed out.
type TokenSource func() string

// HTTPService is the REST implementation of RemoteService. Transient
// failures (5xx, transport errors) are retried with fibonacci backoff up
// to MaxRetries; client errors fail immediately.
type HTTPService struct {
	baseURL    string
	client     *http.Client
	token      TokenSource
	log        logging.Logger
	maxRetries uint64
	backoff    time.Duration
}

type HTTPOption func(*HTTPService)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPService) { s.client = c }
}

func WithRetries(max uint64, base time.Duration) HTTPOption {
	return func(s *HTTPService) { s.maxRetries = max; s.backoff = base }
}

func NewHTTPService(baseURL string, token TokenSource, log logging.Logger, opts ...HTTPOption) *HTTPService {
	s := &HTTPService{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		token:      token,
		log:        log,
		maxRetries: 2,
		backoff:    100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPService) Execute(ctx context.Context, req *Request) ([]byte, error) {
	var body []byte

	b := retry.WithMaxRetries(s.maxRetries, retry.NewFibonacci(s.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		body, err = s.execute(ctx, req)
		if err != nil && IsTransient(err) {
			s.log.Debug(ctx, "retrying request", "method", req.Method, "path", req.Path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *HTTPService) execute(ctx context.Context, req *Request) ([]byte, error) {
	var reader io.Reader
	if len(req.Body) > 0 {
		reader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, s.baseURL+req.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token := s.token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, &StatusError{Code: resp.StatusCode})
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return b, nil
}

// Ping probes the backend status endpoint. Used by the reachability
// watcher; bypasses the retry policy on purpose.
func (s *HTTPService) Ping(ctx context.Context) error {
	_, err := s.execute(ctx, &Request{Method: http.MethodGet, Path: "/ping"})
	return err
}
