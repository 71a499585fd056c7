package tenantapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/teamdesk/internal/tenantapi"

// Call outcomes reported to an Observer.
const (
	OutcomeOK        = "ok"
	OutcomeCode      = "code_error"
	OutcomeTransport = "transport_error"
)

// Observer receives one notification per upstream call.
type Observer interface {
	ObserveCall(operation string, outcome string, elapsed time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithObserver installs a call observer.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// Client calls the tenant REST API.
type Client struct {
	rest       *resty.Client
	httpClient *http.Client
	timeout    time.Duration
	observer   Observer
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewClient builds a tenant API client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		tracer:     otel.Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.SetBaseURL(normalized).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if c.timeout > 0 {
		c.rest.SetTimeout(c.timeout)
	}
	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("tenant api base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse tenant api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("tenant api base url must use http or https: %q", trimmed)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("tenant api base url must include a host: %q", trimmed)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

type call struct {
	operation  string
	method     string
	path       string
	pathParams map[string]string
	body       any
}

// do executes one call and returns the raw response so callers can decode
// the envelope into their payload type.
func (c *Client) do(ctx context.Context, in call) (*resty.Response, func(outcome string), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	ctx, span := c.tracer.Start(ctx, "tenantapi."+in.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", in.method),
			attribute.String("url.template", in.path),
		),
	)
	finish := func(outcome string) {
		span.SetAttributes(attribute.String("tenantapi.outcome", outcome))
		if outcome == OutcomeTransport {
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		if c.observer != nil {
			c.observer.ObserveCall(in.operation, outcome, time.Since(started))
		}
	}

	req := c.rest.R().SetContext(ctx)
	if token, ok := AuthorizationFromContext(ctx); ok {
		req.SetHeader("Authorization", token)
	}
	if len(in.pathParams) > 0 {
		req.SetPathParams(in.pathParams)
	}
	if in.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in.body)
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		span.RecordError(err)
		finish(OutcomeTransport)
		return nil, nil, &TransportError{Operation: in.operation, Err: err}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))
	return resp, finish, nil
}

func execute[T any](ctx context.Context, c *Client, in call) (Result[T], error) {
	result, _, err := executeWithResponse[T](ctx, c, in)
	return result, err
}

func executeWithResponse[T any](ctx context.Context, c *Client, in call) (Result[T], *resty.Response, error) {
	resp, finish, err := c.do(ctx, in)
	if err != nil {
		return Result[T]{}, nil, err
	}
	result, decodeErr := decodeEnvelope[T](resp.Body())
	if decodeErr != nil {
		finish(OutcomeTransport)
		return Result[T]{}, resp, &TransportError{Operation: in.operation, StatusCode: resp.StatusCode(), Err: decodeErr}
	}
	if resp.IsError() && result.OK() {
		finish(OutcomeTransport)
		return Result[T]{}, resp, &TransportError{
			Operation:  in.operation,
			StatusCode: resp.StatusCode(),
			Err:        errors.New(http.StatusText(resp.StatusCode())),
		}
	}
	if result.OK() {
		finish(OutcomeOK)
	} else {
		finish(OutcomeCode)
	}
	return result, resp, nil
}
