package app

import (
	"bytes"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopcart/internal/domain/cart"
	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/pricing"
	"github.com/xenking/shopcart/internal/fetch"
	"github.com/xenking/shopcart/internal/transport"
)

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r, err := NewRenderer(&out, "es-PE", "PEN")
	require.NoError(t, err)
	return r, &out
}

func TestNewRenderer_Invalid(t *testing.T) {
	_, err := NewRenderer(&bytes.Buffer{}, "not a locale!", "PEN")
	require.Error(t, err)

	_, err = NewRenderer(&bytes.Buffer{}, "es-PE", "XXXX")
	require.Error(t, err)
}

func TestRenderer_Money(t *testing.T) {
	r, _ := newTestRenderer(t)

	assert.Equal(t, r.Money(decimal.RequireFromString("80")), r.Money(decimal.RequireFromString("80.001")))
	assert.NotEqual(t, r.Money(decimal.RequireFromString("80")), r.Money(decimal.RequireFromString("80.01")))
	assert.Contains(t, r.Money(decimal.RequireFromString("30")), "30")
}

func TestRenderer_Catalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog game.Catalog
		want    []string
	}{
		{
			name:    "empty with server message",
			catalog: game.Catalog{Message: "sin juegos"},
			want:    []string{"sin juegos"},
		},
		{
			name:    "empty without message",
			catalog: game.Catalog{},
			want:    []string{emptyCatalogMessage},
		},
		{
			name: "priced items",
			catalog: game.Catalog{Items: []game.Listing{
				{Game: game.Videogame{ID: 1, Title: "Game A", Price: decimal.NewFromInt(100), State: "ACTIVO"}, Effective: decimal.NewFromInt(80)},
				{Game: game.Videogame{ID: 2, Title: "Game B", Price: decimal.NewFromInt(40)}, Effective: decimal.NewFromInt(40)},
			}},
			want: []string{"Catalog (2)", "Game A", "was", "[ACTIVO]", "Game B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRenderer(t)
			r.Catalog(tt.catalog)
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestRenderer_Offer(t *testing.T) {
	r, out := newTestRenderer(t)

	r.Offer(game.Offer{
		Game: game.Detail{
			Title:       "Elden Ring",
			Description: "Open world",
			Console:     &game.Console{Description: "PlayStation 5"},
			HasDiscount: true,
			Price:       decimal.NewFromInt(200),
			Image:       pngPayload,
			Image2:      "not an image",
			Promotions:  []game.Promotion{{Description: "Lanzamiento", Discount: pricing.Percent(35), StartDate: "2024-01-01", EndDate: "2024-02-01"}},
			Categories:  []game.Category{{Description: "RPG"}, {Description: "Accion"}},
		},
		Effective: decimal.NewFromInt(130),
	})

	s := out.String()
	assert.Contains(t, s, "Elden Ring")
	assert.Contains(t, s, "console: PlayStation 5")
	assert.Contains(t, s, "categories: RPG, Accion")
	assert.Contains(t, s, "promotion: Lanzamiento (-35%, 2024-01-01 to 2024-02-01)")
	assert.Contains(t, s, "image 1: image/png")
	assert.NotContains(t, s, "image 2:")
	assert.Contains(t, s, r.Money(decimal.NewFromInt(130)))
}

func TestRenderer_Cart(t *testing.T) {
	r, out := newTestRenderer(t)

	c := cart.New()
	r.Cart(c)
	assert.Contains(t, out.String(), "Cart is empty")

	out.Reset()
	e, err := cart.FromDetail(game.Detail{ID: 2, Title: "Game B", HasDiscount: true, Price: decimal.NewFromInt(40),
		Promotions: []game.Promotion{{Discount: decimal.RequireFromString("0.25")}}})
	require.NoError(t, err)
	c.Add(e)
	c.Add(e)
	r.Cart(c)

	s := out.String()
	assert.Contains(t, s, "Cart (2)")
	assert.Contains(t, s, "Total")
	assert.Contains(t, s, r.Money(decimal.NewFromInt(60)))
}

func TestRenderer_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "server message", err: &fetch.HTTPError{Code: 404, Message: "not found"}, want: "detail failed: not found"},
		{name: "timeout", err: errors.Wrap(transport.ErrTimeout, "do"), want: "detail failed: timeout"},
		{name: "empty", err: transport.ErrEmptyResponse, want: "detail failed: empty_response"},
		{name: "bare http error", err: &fetch.HTTPError{Code: 502}, want: "detail failed: http_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRenderer(t)
			r.Failure("detail", tt.err)
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}
}
