// Package game holds the videogame catalog model as decoded from the remote
// service: list items, detail records and their labels and promotions.
package game

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart/internal/domain/pricing"
)

// ErrNotFound is returned when a requested videogame does not exist.
var ErrNotFound = errors.New("videogame not found")

// Videogame is a catalog list item. Discount is already normalized to a
// fraction; the wire carries it as an integer percentage.
type Videogame struct {
	ID        int
	ConsoleID *int
	Title     string
	Discount  decimal.Decimal
	Price     decimal.Decimal
	State     string
	Mini      string
}

// Quote returns the pricing inputs for the list item. A list item counts as
// discounted whenever its discount is non-zero.
func (v Videogame) Quote() pricing.Quote {
	return pricing.Quote{
		Base:       v.Price,
		Fraction:   v.Discount,
		Discounted: !v.Discount.IsZero(),
	}
}

// Detail is the full record of a single videogame.
type Detail struct {
	ID          int
	Title       string
	Description string
	Console     *Console
	HasDiscount bool
	Price       decimal.Decimal
	State       string
	Image       string
	Image2      string
	Image3      string
	Mini        string
	Promotions  []Promotion
	Categories  []Category
}

// ActivePromotion returns the first promotion, which is the one the discount
// rule applies. It reports false when the detail carries no promotions.
func (g Detail) ActivePromotion() (Promotion, bool) {
	if len(g.Promotions) == 0 {
		return Promotion{}, false
	}
	return g.Promotions[0], true
}

// Quote returns the pricing inputs for the detail record.
func (g Detail) Quote() pricing.Quote {
	q := pricing.Quote{
		Base:       g.Price,
		Fraction:   decimal.Zero,
		Discounted: g.HasDiscount,
	}
	if promo, ok := g.ActivePromotion(); ok {
		q.Fraction = promo.Discount
	}
	return q
}

// Images returns the non-empty image payloads in display order: the three
// full-size images followed by the thumbnail.
func (g Detail) Images() []string {
	var out []string
	for _, img := range []string{g.Image, g.Image2, g.Image3, g.Mini} {
		if img != "" {
			out = append(out, img)
		}
	}
	return out
}

// Summary derives the catalog list item for the detail, reporting the active
// promotion as a whole percentage.
func (g Detail) Summary() Videogame {
	v := Videogame{
		ID:       g.ID,
		Title:    g.Title,
		Discount: decimal.Zero,
		Price:    g.Price,
		State:    g.State,
		Mini:     g.Mini,
	}
	if g.Console != nil {
		id := g.Console.ID
		v.ConsoleID = &id
	}
	if promo, ok := g.ActivePromotion(); ok && g.HasDiscount {
		v.Discount = pricing.Percent(pricing.ToPercent(promo.Discount))
	}
	return v
}

// Promotion is a discount campaign attached to a videogame. The validity
// window is kept as the server sent it.
type Promotion struct {
	ID          int
	Description string
	Discount    decimal.Decimal
	StartDate   string
	EndDate     string
	Active      bool
	Image       string
}

// Category is a genre label.
type Category struct {
	ID          int
	Description string
}

// Console is a platform label.
type Console struct {
	ID          int
	Description string
}

// Listing is a catalog item paired with its effective price.
type Listing struct {
	Game      Videogame
	Effective decimal.Decimal
}

// Catalog is the priced result of a catalog fetch. Message carries the
// server's envelope message, which callers show when Items is empty.
type Catalog struct {
	Items   []Listing
	Message string
}

// Offer is a detail record paired with its effective price.
type Offer struct {
	Game      Detail
	Effective decimal.Decimal
}

// Repository defines read operations over the videogame catalog.
type Repository interface {
	List(ctx context.Context) ([]Videogame, error)
	GetByID(ctx context.Context, id int) (*Detail, error)
}
