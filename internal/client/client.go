// Package client talks to the medical NER analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/advait-mulye/medner/internal/cache"
	"github.com/advait-mulye/medner/internal/logger"
	"github.com/advait-mulye/medner/internal/model"
)

const (
	analyzePath     = "/analyze"
	entityTypesPath = "/entity_types"
	healthPath      = "/health"

	// RequestIDHeader carries a per-call ID so service logs can be correlated
	RequestIDHeader = "X-Request-ID"
)

// Client calls the analysis service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	log        *logrus.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithCache caches the entity type catalogue in c for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the transport built from config
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = hc
	}
}

// WithLogger sets the logger; the default is the shared one
func WithLogger(l *logrus.Logger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// New creates a Client for cfg.BaseURL
func New(cfg model.APIConfig, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		limiter:   NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize),
		log:       logger.Get(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the service base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze sends text to the service in a single POST. There is no retry.
// Every failure is an *AnalysisError.
func (c *Client) Analyze(ctx context.Context, text string) (*model.AnalysisResponse, error) {
	body, err := json.Marshal(model.AnalysisRequest{Text: text})
	if err != nil {
		return nil, transportError(fmt.Errorf("marshal request: %w", err))
	}

	var resp model.AnalysisResponse
	if err := c.do(ctx, http.MethodPost, analyzePath, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EntityTypes returns the service's label descriptions, from cache when possible
func (c *Client) EntityTypes(ctx context.Context) (model.EntityTypes, error) {
	key := cache.Key(c.baseURL, entityTypesPath)

	if c.cache != nil {
		var cached model.EntityTypes
		if cache.GetJSON(c.cache, key, &cached) {
			c.log.Debug("entity types served from cache")
			return cached, nil
		}
	}

	var resp model.EntityTypesResponse
	if err := c.do(ctx, http.MethodGet, entityTypesPath, nil, &resp); err != nil {
		return nil, err
	}

	if c.cache != nil && len(resp.EntityTypes) > 0 {
		if err := cache.SetJSON(c.cache, key, resp.EntityTypes, c.cacheTTL); err != nil {
			c.log.WithError(err).Warn("failed to cache entity types")
		}
	}

	return resp.EntityTypes, nil
}

// Health reports the service's health endpoint
func (c *Client) Health(ctx context.Context) (*model.HealthStatus, error) {
	var status model.HealthStatus
	if err := c.do(ctx, http.MethodGet, healthPath, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	url := c.baseURL + path

	if err := c.limiter.Wait(ctx, url); err != nil {
		return transportError(fmt.Errorf("rate limit: %w", err))
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return transportError(fmt.Errorf("create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        url,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("service request failed")
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		log.WithError(err).Warn("failed to read service response")
		return transportError(fmt.Errorf("read body: %w", err))
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody model.ErrorBody
		// a non-JSON error body falls back to the generic message
		_ = json.Unmarshal(data, &errBody)
		log.WithField("error", errBody.Error).Warn("service returned an error status")
		return statusError(resp.StatusCode, errBody.Message)
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.WithError(err).Warn("malformed service response")
		return transportError(err)
	}

	log.Debug("service request completed")
	return nil
}
