/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:generate go tool mockgen -destination=mock/roundtripper.go -package=mock net/http RoundTripper

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// logOptionsKey carries per call LogOptions to the pre-request hook.
type logOptionsKey struct{}

type APIClient struct {
	client    *resty.Client
	config    *TestConfig
	endpoints *Endpoints
	logger    *zap.Logger
	transport http.RoundTripper
}

// ClientOption customizes an APIClient at construction.
type ClientOption func(*APIClient)

// WithTransport replaces the HTTP transport, used to inject failures.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *APIClient) {
		c.transport = transport
	}
}

// WithLogger replaces the default Ginkgo writer backed logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *APIClient) {
		c.logger = logger
	}
}

func NewAPIClientWithConfig(config *TestConfig, options ...ClientOption) *APIClient {
	c := &APIClient{
		config:    config,
		endpoints: NewEndpoints(config),
	}

	for _, option := range options {
		option(c)
	}

	if c.logger == nil {
		c.logger = NewLogger(config)
	}

	// A failed call surfaces immediately, there are no retries.
	c.client = resty.New().
		SetTimeout(config.RequestTimeout).
		SetRetryCount(0).
		SetLogger(c.logger.Sugar())

	if c.transport != nil {
		c.client.SetTransport(c.transport)
	}

	c.client.SetPreRequestHook(c.logSentHeaders)

	return c
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, url string, duration time.Duration, traceParent string, err error, context string) {
	c.logger.Error(context,
		zap.String("method", method),
		zap.String("url", url),
		zap.Duration("duration", duration),
		zap.String("traceparent", traceParent),
		zap.Error(err),
	)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	c.logger.Sugar().Infof("TRACE CONTEXT: Use trace ID '%s' to search logs for this request", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// logOptions merges the per call options with the configuration wide ones.
func (c *APIClient) logOptions(options LogOptions) LogOptions {
	if c.config.LogRequests {
		options.URI = true
		options.Status = true
	}

	if c.config.LogResponses {
		options.ResponseBody = true
	}

	return options
}

func redactHeaders(header http.Header) http.Header {
	redacted := header.Clone()

	for _, name := range []string{"Authorization", apiKeyHeader} {
		if redacted.Get(name) != "" {
			redacted.Set(name, "[REDACTED]")
		}
	}

	return redacted
}

func (c *APIClient) logRequest(req *Request, options LogOptions, traceID string) {
	if options.URI {
		c.logger.Info("request", zap.String("method", req.Method()), zap.String("url", req.URL()), zap.String("traceID", traceID))
	}

	if options.RequestBody && len(req.body) > 0 {
		c.logger.Info("request body", zap.ByteString("body", req.body))
	}
}

// logSentHeaders logs the headers as they go on the wire, including trace
// context, user agent and basic auth added after the Request was built.
func (c *APIClient) logSentHeaders(_ *resty.Client, req *http.Request) error {
	if options, ok := req.Context().Value(logOptionsKey{}).(LogOptions); ok && options.Headers {
		c.logger.Info("request headers", zap.Any("headers", redactHeaders(req.Header)))
	}

	return nil
}

func (c *APIClient) logResponse(req *Request, resp *Response, options LogOptions) {
	if options.Status {
		c.logger.Info("response",
			zap.String("method", req.Method()),
			zap.String("url", req.URL()),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("duration", resp.Duration()),
			zap.String("traceID", resp.TraceID()),
		)
	}

	if options.Headers {
		c.logger.Info("response headers", zap.Any("headers", resp.Header()))
	}

	if options.ResponseBody && len(resp.body) > 0 {
		c.logger.Info("response body", zap.ByteString("body", resp.body))
	}
}

// Do performs a single blocking call. Transport failures are returned as a
// NetworkError, any HTTP status is a successful call.
func (c *APIClient) Do(ctx context.Context, req *Request) (*Response, error) {
	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	options := c.logOptions(req.Log())

	r := c.client.R().
		SetContext(context.WithValue(ctx, logOptionsKey{}, options)).
		SetHeaderMultiValues(req.Header()).
		SetHeader("Traceparent", traceParent).
		SetHeader("Tracestate", "test-automation=ginkgo").
		SetHeader("X-Request-Id", NewRequestID())

	if username, password, ok := req.BasicAuth(); ok {
		r.SetBasicAuth(username, password)
	}

	if body := req.Body(); body != nil {
		r.SetBody(body)
	}

	c.logRequest(req, options, traceID)

	start := time.Now()
	resp, err := r.Execute(req.Method(), req.URL())
	duration := time.Since(start)

	if err != nil {
		c.logError(req.Method(), req.URL(), duration, traceParent, err, "http request failed")

		return nil, &NetworkError{
			Method:  req.Method(),
			URL:     req.URL(),
			TraceID: traceID,
			Err:     err,
		}
	}

	response := newResponse(resp.StatusCode(), resp.Header(), resp.Body(), duration, traceID)

	c.logResponse(req, response, options)

	return response, nil
}

// Send builds the request and performs it.
func (c *APIClient) Send(ctx context.Context, spec RequestSpec) (*Response, error) {
	req, err := BuildRequest(spec)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, req)
}

// GetSessionStatus reads the browser session pool status.
func (c *APIClient) GetSessionStatus(ctx context.Context, log LogOptions) (*Response, error) {
	resp, err := c.Send(ctx, SessionStatusRequest(c.endpoints, log))
	if err != nil {
		return nil, fmt.Errorf("getting session status: %w", err)
	}

	return resp, nil
}

// GetHubStatus reads the hub status, auth may be nil to test rejection.
func (c *APIClient) GetHubStatus(ctx context.Context, auth *BasicAuth, log LogOptions) (*Response, error) {
	resp, err := c.Send(ctx, HubStatusRequest(c.endpoints, auth, log))
	if err != nil {
		return nil, fmt.Errorf("getting hub status: %w", err)
	}

	return resp, nil
}

// Login posts the credentials to the login API.
func (c *APIClient) Login(ctx context.Context, credentials LoginCredentials, log LogOptions) (*Response, error) {
	resp, err := c.Send(ctx, LoginRequest(c.endpoints, c.config, credentials, log))
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return resp, nil
}
