// Package fetch sequences catalog service calls: request, decode, price and
// deliver one outcome per call back to the caller.
package fetch

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/decode"
	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
	"github.com/xenking/shopcart/internal/transport"
)

// Operation names, used for spans, metrics and logs.
const (
	OpCatalog       = "catalog"
	OpDetail        = "detail"
	OpAuthenticate  = "authenticate"
	OpUpdateProfile = "update_profile"
)

// Doer performs one transport exchange.
type Doer interface {
	Do(ctx context.Context, req transport.Request) (transport.Response, error)
}

var _ Doer = (*transport.Client)(nil)

// Endpoints locates the remote operations. DetailPath is followed directly by
// the numeric id.
type Endpoints struct {
	BaseURL     string
	CatalogPath string
	DetailPath  string
	LoginPath   string
	UpdatePath  string
}

func (e Endpoints) catalog() string { return e.BaseURL + e.CatalogPath }
func (e Endpoints) detail(id int) string { return e.BaseURL + e.DetailPath + strconv.Itoa(id) }
func (e Endpoints) login() string { return e.BaseURL + e.LoginPath }
func (e Endpoints) update() string { return e.BaseURL + e.UpdatePath }

type options struct {
	lg             *zap.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures an Orchestrator.
type Option func(*options)

// WithLogger sets the logger for fetch lifecycle events.
func WithLogger(lg *zap.Logger) Option {
	return func(o *options) { o.lg = lg }
}

// WithTracerProvider sets the provider for per-fetch spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider for fetch count and duration metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Orchestrator runs fetches on a Pool. Each call owns its request, response
// and decode; calls share nothing mutable and may settle in any order.
type Orchestrator struct {
	doer      Doer
	pool      *Pool
	endpoints Endpoints
	lg        *zap.Logger
	tracer    trace.Tracer

	count    metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates an Orchestrator.
func New(doer Doer, pool *Pool, endpoints Endpoints, opts ...Option) (*Orchestrator, error) {
	o := options{
		lg:             zap.NewNop(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter("shopcart/fetch")
	count, err := meter.Int64Counter("shopcart.fetch.count",
		metric.WithDescription("Completed fetches by operation and failure reason"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create fetch counter")
	}
	duration, err := meter.Float64Histogram("shopcart.fetch.duration",
		metric.WithDescription("Fetch duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create fetch histogram")
	}

	return &Orchestrator{
		doer:      doer,
		pool:      pool,
		endpoints: endpoints,
		lg:        o.lg,
		tracer:    o.tracerProvider.Tracer("shopcart/fetch"),
		count:     count,
		duration:  duration,
	}, nil
}

// Catalog fetches the catalog and prices every item. A single item with an
// out-of-range discount fails the whole call with pricing.ErrInvalidDiscount.
func (o *Orchestrator) Catalog(ctx context.Context) *Call[game.Catalog] {
	req := transport.Request{Method: http.MethodGet, URL: o.endpoints.catalog()}
	return submit(ctx, o, OpCatalog, req, parseCatalog)
}

// Detail fetches one videogame and prices it.
func (o *Orchestrator) Detail(ctx context.Context, id int) *Call[game.Offer] {
	req := transport.Request{Method: http.MethodGet, URL: o.endpoints.detail(id)}
	return submit(ctx, o, OpDetail, req, parseDetail)
}

// Authenticate exchanges credentials for the account record.
func (o *Orchestrator) Authenticate(ctx context.Context, c user.Credentials) *Call[user.User] {
	req := transport.Request{
		Method: http.MethodPost,
		URL:    o.endpoints.login(),
		Body:   encodeCredentials(c),
	}
	return submit(ctx, o, OpAuthenticate, req, parseUser)
}

// UpdateProfile submits a profile update and returns the stored account.
func (o *Orchestrator) UpdateProfile(ctx context.Context, p user.ProfileUpdate) *Call[user.User] {
	req := transport.Request{
		Method: http.MethodPost,
		URL:    o.endpoints.update(),
		Body:   encodeProfileUpdate(p),
	}
	return submit(ctx, o, OpUpdateProfile, req, parseUser)
}

// submit moves a new call to InFlight and hands the exchange to the pool. If
// the pool refuses the job the call fails right away.
func submit[T any](ctx context.Context, o *Orchestrator, op string, req transport.Request, parse func(transport.Response) (T, error)) *Call[T] {
	c := newCall[T]()
	c.start()

	err := o.pool.Submit(ctx, func() {
		v, err := exchange(ctx, o, op, req, parse)
		c.settle(v, err)
	})
	if err != nil {
		var zero T
		err = errors.Wrapf(err, "submit %s", op)
		o.observe(ctx, op, err, 0)
		c.settle(zero, err)
	}
	return c
}

func exchange[T any](ctx context.Context, o *Orchestrator, op string, req transport.Request, parse func(transport.Response) (T, error)) (T, error) {
	ctx, span := o.tracer.Start(ctx, "fetch."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", req.URL)),
	)
	defer span.End()

	o.lg.Debug("Fetch started", zap.String("op", op), zap.String("url", req.URL))
	start := time.Now()

	var v T
	resp, err := o.doer.Do(ctx, req)
	if err == nil {
		v, err = parse(resp)
	}
	if err != nil {
		err = errors.Wrap(err, op)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ReasonOf(err)))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	o.observe(ctx, op, err, time.Since(start))
	return v, err
}

func (o *Orchestrator) observe(ctx context.Context, op string, err error, d time.Duration) {
	reason := ReasonOf(err)
	o.count.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("reason", string(reason)),
	))
	o.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("op", op)))

	if err != nil {
		o.lg.Warn("Fetch failed",
			zap.String("op", op),
			zap.String("reason", string(reason)),
			zap.Duration("duration", d),
			zap.Error(err),
		)
		return
	}
	o.lg.Info("Fetch succeeded", zap.String("op", op), zap.Duration("duration", d))
}

// envelopeError turns a decoded envelope into the call's failure, if any.
// The envelope's status flag decides, whatever the HTTP status was. A
// non-2xx response whose body is not an envelope becomes an HTTPError with
// the malformed payload as its cause.
func envelopeError[T any](resp transport.Response, env decode.Envelope[T], err error) error {
	if err != nil {
		if !resp.Success() {
			return &HTTPError{
				Code:    resp.StatusCode,
				Message: http.StatusText(resp.StatusCode),
				Cause:   err,
			}
		}
		return err
	}
	if !env.Status {
		return &HTTPError{Code: env.Code, Message: env.Message}
	}
	return nil
}

func parseCatalog(resp transport.Response) (game.Catalog, error) {
	env, err := decode.Catalog(resp.Body, resp.StatusCode)
	if err := envelopeError(resp, env, err); err != nil {
		return game.Catalog{}, err
	}

	out := game.Catalog{
		Items:   make([]game.Listing, 0, len(env.Data)),
		Message: env.Message,
	}
	for _, v := range env.Data {
		eff, err := v.Quote().Effective()
		if err != nil {
			return game.Catalog{}, errors.Wrapf(err, "price game %d", v.ID)
		}
		out.Items = append(out.Items, game.Listing{Game: v, Effective: eff})
	}
	return out, nil
}

func parseDetail(resp transport.Response) (game.Offer, error) {
	env, err := decode.Detail(resp.Body, resp.StatusCode)
	if err := envelopeError(resp, env, err); err != nil {
		return game.Offer{}, err
	}
	if !env.HasData {
		return game.Offer{}, errors.Wrap(decode.ErrMalformedPayload, "detail without data")
	}

	eff, err := env.Data.Quote().Effective()
	if err != nil {
		return game.Offer{}, errors.Wrapf(err, "price game %d", env.Data.ID)
	}
	return game.Offer{Game: env.Data, Effective: eff}, nil
}

// parseUser accepts a successful envelope without data as a zero user.
func parseUser(resp transport.Response) (user.User, error) {
	env, err := decode.User(resp.Body, resp.StatusCode)
	if err := envelopeError(resp, env, err); err != nil {
		return user.User{}, err
	}
	return env.Data, nil
}

