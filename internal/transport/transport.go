// Package transport performs single HTTP exchanges with the remote catalog
// service.
package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrTimeout is returned when connecting or reading exceeds its timeout.
	ErrTimeout = errors.New("timeout")
	// ErrEmptyResponse is returned when a completed exchange has a zero-length
	// body, whatever the status code.
	ErrEmptyResponse = errors.New("empty response")
	// ErrBodyTooLarge is returned when the body exceeds Config.MaxBodyBytes.
	ErrBodyTooLarge = errors.New("response body too large")
)

// RequestIDHeader carries a per-request identifier to the server.
const RequestIDHeader = "X-Request-ID"

// Config controls timeouts and limits of a Client.
type Config struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	// MaxBodyBytes caps the response body. Zero means no limit.
	MaxBodyBytes int64
}

// Request is an outgoing exchange. A non-nil Body is sent as JSON.
type Request struct {
	Method string
	URL    string
	Body   []byte
}

// Response is a completed exchange. Body holds the success payload for 2xx
// statuses and the error payload otherwise.
type Response struct {
	StatusCode int
	Body       []byte
}

// Success reports whether the status code is in the 2xx range.
func (r Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type options struct {
	base           http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*options)

// WithRoundTripper replaces the underlying transport. Timeouts other than the
// per-request deadline are then up to rt.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithTracerProvider sets the tracer provider for outgoing request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for outgoing request metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Client executes requests. It is safe for concurrent use; each call owns its
// own request, response and body.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.base == nil {
		dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
		o.base = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
		}
	}

	var otelOpts []otelhttp.Option
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(o.tracerProvider))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(o.meterProvider))
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Transport: otelhttp.NewTransport(o.base, otelOpts...)},
	}
}

// Do performs one exchange. The whole exchange, body included, must finish
// within ConnectTimeout+ReadTimeout. The response body is closed before Do
// returns on every path.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	if limit := c.cfg.ConnectTimeout + c.cfg.ReadTimeout; limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return Response{}, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, classify(ctx, err, "%s %s", req.Method, req.URL)
	}
	defer func() { _ = resp.Body.Close() }()

	out := Response{StatusCode: resp.StatusCode}
	out.Body, err = c.readBody(resp.Body)
	if err != nil {
		return out, classify(ctx, err, "read %s %s", req.Method, req.URL)
	}
	if len(out.Body) == 0 {
		return out, errors.Wrapf(ErrEmptyResponse, "%s %s: status %d", req.Method, req.URL, resp.StatusCode)
	}

	return out, nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	if c.cfg.MaxBodyBytes <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > c.cfg.MaxBodyBytes {
		return nil, errors.Wrapf(ErrBodyTooLarge, "limit %d bytes", c.cfg.MaxBodyBytes)
	}
	return b, nil
}

// classify maps deadline and network timeout errors to ErrTimeout. Caller
// cancellation is kept as context.Canceled.
func classify(ctx context.Context, err error, format string, args ...any) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return errors.Wrapf(context.Canceled, format, args...)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrapf(ErrTimeout, format+": %v", append(args, err)...)
	}

	return errors.Wrapf(err, format, args...)
}
