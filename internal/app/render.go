package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xenking/shopcart/internal/domain/cart"
	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/pricing"
	"github.com/xenking/shopcart/internal/domain/user"
	"github.com/xenking/shopcart/internal/fetch"
	"github.com/xenking/shopcart/internal/imagedata"
)

const emptyCatalogMessage = "No videogames available"

// Renderer prints engine results for a terminal. Money is shown in a single
// currency using the configured locale.
type Renderer struct {
	w    io.Writer
	p    *message.Printer
	unit currency.Unit
}

// NewRenderer returns a Renderer writing to w.
func NewRenderer(w io.Writer, locale, iso string) (*Renderer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.Wrapf(err, "parse locale %q", locale)
	}
	unit, err := currency.ParseISO(iso)
	if err != nil {
		return nil, errors.Wrapf(err, "parse currency %q", iso)
	}
	return &Renderer{w: w, p: message.NewPrinter(tag), unit: unit}, nil
}

// Money formats v with the currency symbol, rounded to cents.
func (r *Renderer) Money(v decimal.Decimal) string {
	return r.p.Sprint(currency.Symbol(r.unit.Amount(v.Round(2).InexactFloat64())))
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = r.p.Fprintf(r.w, format, args...)
}

// Welcome greets a signed-in user.
func (r *Renderer) Welcome(u user.User) {
	r.printf("Welcome, %s\n", u.DisplayName())
	if u.Role != nil {
		r.printf("  role: %s\n", u.Role.Description)
	}
	if img, ok := imagedata.Decode(u.Avatar); ok {
		r.printf("  avatar: %s, %d bytes\n", img.MIME, len(img.Data))
	}
}

// ProfileUpdated confirms a saved profile.
func (r *Renderer) ProfileUpdated(u user.User) {
	r.printf("Profile saved for %s (%s)\n", u.DisplayName(), u.Address)
}

// Catalog lists the priced catalog, or the server's message when it is
// empty.
func (r *Renderer) Catalog(c game.Catalog) {
	if len(c.Items) == 0 {
		msg := c.Message
		if msg == "" {
			msg = emptyCatalogMessage
		}
		r.printf("%s\n", msg)
		return
	}

	r.printf("Catalog (%d)\n", len(c.Items))
	for _, l := range c.Items {
		r.printf("  #%-4d %-32s %s%s\n", l.Game.ID, l.Game.Title, r.price(l.Game.Price, l.Effective), stateSuffix(l.Game.State))
	}
}

// Offer shows one detail record.
func (r *Renderer) Offer(o game.Offer) {
	g := o.Game
	r.printf("%s\n", g.Title)
	if g.Console != nil {
		r.printf("  console: %s\n", g.Console.Description)
	}
	if len(g.Categories) > 0 {
		labels := make([]string, 0, len(g.Categories))
		for _, c := range g.Categories {
			labels = append(labels, c.Description)
		}
		r.printf("  categories: %s\n", strings.Join(labels, ", "))
	}
	r.printf("  price: %s\n", r.price(g.Price, o.Effective))
	if promo, ok := g.ActivePromotion(); ok && g.HasDiscount {
		r.printf("  promotion: %s (-%d%%, %s to %s)\n",
			promo.Description, pricing.ToPercent(promo.Discount), promo.StartDate, promo.EndDate)
	}
	if g.Description != "" {
		r.printf("  %s\n", g.Description)
	}
	for i, payload := range g.Images() {
		if img, ok := imagedata.Decode(payload); ok {
			r.printf("  image %d: %s, %d bytes\n", i+1, img.MIME, len(img.Data))
		}
	}
}

// Added confirms a cart line.
func (r *Renderer) Added(e cart.Entry) {
	r.printf("Added %s at %s\n", e.Item.Title, r.Money(e.Effective))
}

// Cart lists the cart lines and the total.
func (r *Renderer) Cart(c *cart.Cart) {
	entries := c.All()
	if len(entries) == 0 {
		r.printf("Cart is empty\n")
		return
	}
	r.printf("Cart (%d)\n", len(entries))
	for _, e := range entries {
		r.printf("  %-36s %s\n", e.Item.Title, r.Money(e.Effective))
	}
	r.printf("  %-36s %s\n", "Total", r.Money(c.Total()))
}

// Failure reports a failed remote operation.
func (r *Renderer) Failure(op string, err error) {
	var httpErr *fetch.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		r.printf("%s failed: %s\n", op, httpErr.Message)
		return
	}
	r.printf("%s failed: %s\n", op, fetch.ReasonOf(err))
}

func (r *Renderer) price(base, effective decimal.Decimal) string {
	if effective.Equal(base) {
		return r.Money(base)
	}
	return fmt.Sprintf("%s (was %s)", r.Money(effective), r.Money(base))
}

func stateSuffix(state string) string {
	if state == "" {
		return ""
	}
	return " [" + state + "]"
}
