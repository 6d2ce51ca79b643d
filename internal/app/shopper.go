package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/domain/cart"
	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
	"github.com/xenking/shopcart/internal/fetch"
)

// Remote is the set of fetches the shopper issues.
type Remote interface {
	Catalog(ctx context.Context) *fetch.Call[game.Catalog]
	Detail(ctx context.Context, id int) *fetch.Call[game.Offer]
	Authenticate(ctx context.Context, c user.Credentials) *fetch.Call[user.User]
	UpdateProfile(ctx context.Context, p user.ProfileUpdate) *fetch.Call[user.User]
}

// Plan is what one run of the client does.
type Plan struct {
	Username string
	Password string
	Address  string
	Games    []int
}

// Plan returns the run plan from the configuration.
func (c *Config) Plan() Plan {
	return Plan{
		Username: c.Username,
		Password: c.Password,
		Address:  c.Address,
		Games:    c.Games,
	}
}

// Shopper drives a session: sign in, browse the catalog, open the planned
// details and add them to the cart. Every outcome is handled on the loop, so
// the session and cart are only touched from one goroutine.
type Shopper struct {
	remote  Remote
	loop    *fetch.Loop
	session *Session
	render  *Renderer
	lg      *zap.Logger
	plan    Plan

	offers   []offerResult
	pending  int
	failures []error
}

type offerResult struct {
	offer game.Offer
	err   error
}

// NewShopper returns a Shopper delivering outcomes on loop.
func NewShopper(remote Remote, loop *fetch.Loop, session *Session, render *Renderer, lg *zap.Logger, plan Plan) *Shopper {
	return &Shopper{
		remote:  remote,
		loop:    loop,
		session: session,
		render:  render,
		lg:      lg,
		plan:    plan,
	}
}

// Start queues the run on the loop. The loop is stopped when the run ends.
func (s *Shopper) Start(ctx context.Context) {
	s.loop.Dispatch(func() {
		if s.plan.Username == "" {
			s.browse(ctx)
			return
		}
		creds := user.Credentials{Username: s.plan.Username, Password: s.plan.Password}
		s.remote.Authenticate(ctx, creds).Then(s.loop, func(u user.User, err error) {
			s.signedIn(ctx, u, err)
		})
	})
}

// Err returns the failed operations of a finished run, or nil.
func (s *Shopper) Err() error {
	if len(s.failures) == 0 {
		return nil
	}
	return errors.Wrapf(s.failures[0], "%d operation(s) failed", len(s.failures))
}

func (s *Shopper) fail(op string, err error) {
	s.lg.Warn("Operation failed", zap.String("op", op), zap.Error(err))
	s.failures = append(s.failures, errors.Wrap(err, op))
	s.render.Failure(op, err)
}

func (s *Shopper) signedIn(ctx context.Context, u user.User, err error) {
	if err != nil {
		s.fail(fetch.OpAuthenticate, err)
		s.browse(ctx)
		return
	}
	s.session.SignIn(u, s.plan.Password)
	s.render.Welcome(s.session.User)

	if s.plan.Address == "" {
		s.browse(ctx)
		return
	}
	p := s.session.ProfileUpdate()
	p.Address = s.plan.Address
	s.remote.UpdateProfile(ctx, p).Then(s.loop, func(_ user.User, err error) {
		if err != nil {
			s.fail(fetch.OpUpdateProfile, err)
		} else {
			s.session.ApplyProfile(p)
			s.render.ProfileUpdated(s.session.User)
		}
		s.browse(ctx)
	})
}

func (s *Shopper) browse(ctx context.Context) {
	s.remote.Catalog(ctx).Then(s.loop, func(c game.Catalog, err error) {
		if err != nil {
			s.fail(fetch.OpCatalog, err)
		} else {
			s.render.Catalog(c)
		}
		s.openDetails(ctx)
	})
}

// openDetails fetches all planned details at once. They may settle in any
// order; the cart is filled in plan order once all have.
func (s *Shopper) openDetails(ctx context.Context) {
	if len(s.plan.Games) == 0 {
		s.finish()
		return
	}
	s.offers = make([]offerResult, len(s.plan.Games))
	s.pending = len(s.plan.Games)
	for i, id := range s.plan.Games {
		s.remote.Detail(ctx, id).Then(s.loop, func(o game.Offer, err error) {
			s.offers[i] = offerResult{offer: o, err: err}
			s.pending--
			if s.pending == 0 {
				s.fillCart()
			}
		})
	}
}

func (s *Shopper) fillCart() {
	for i, res := range s.offers {
		if res.err != nil {
			s.fail(fetch.OpDetail, errors.Wrapf(res.err, "videogame %d", s.plan.Games[i]))
			continue
		}
		s.render.Offer(res.offer)

		e, err := cart.FromDetail(res.offer.Game)
		if err != nil {
			s.fail(fetch.OpDetail, err)
			continue
		}
		s.session.Cart.Add(e)
		s.render.Added(e)
	}
	s.render.Cart(s.session.Cart)
	s.finish()
}

func (s *Shopper) finish() {
	s.lg.Debug("Run finished",
		zap.Int("cart_items", s.session.Cart.Count()),
		zap.String("cart_total", s.session.Cart.Total().String()),
		zap.Int("failures", len(s.failures)),
	)
	s.loop.Stop()
}
