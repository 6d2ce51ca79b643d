// Package cart implements the purchase cart: an ordered list of purchase
// decisions, each recorded with the effective price it had when added.
package cart

import (
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/pricing"
)

// Item is the owned snapshot of a priced videogame stored in an entry.
type Item struct {
	GameID    int
	Title     string
	BasePrice decimal.Decimal
	Thumbnail string
}

// Entry is one cart line. Effective is fixed at add time and never
// recomputed.
type Entry struct {
	LineID    uuid.UUID
	Item      Item
	Effective decimal.Decimal
	AddedAt   time.Time
}

// NewEntry prices item with q and returns the resulting line. The discount
// rule is evaluated exactly once, here.
func NewEntry(item Item, q pricing.Quote) (Entry, error) {
	eff, err := q.Effective()
	if err != nil {
		return Entry{}, errors.Wrapf(err, "price game %d", item.GameID)
	}
	return Entry{
		LineID:    uuid.New(),
		Item:      item,
		Effective: eff,
		AddedAt:   time.Now(),
	}, nil
}

// FromDetail builds an entry for a detail record.
func FromDetail(g game.Detail) (Entry, error) {
	return NewEntry(Item{
		GameID:    g.ID,
		Title:     g.Title,
		BasePrice: g.Price,
		Thumbnail: g.Mini,
	}, g.Quote())
}

// FromVideogame builds an entry for a catalog list item.
func FromVideogame(v game.Videogame) (Entry, error) {
	return NewEntry(Item{
		GameID:    v.ID,
		Title:     v.Title,
		BasePrice: v.Price,
		Thumbnail: v.Mini,
	}, v.Quote())
}

// Cart is an insertion-ordered list of entries. Adding the same game twice
// yields two entries. The zero value is an empty cart ready for use.
//
// All methods are safe for concurrent use.
type Cart struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends e.
func (c *Cart) Add(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, e)
}

// Count returns the number of entries.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// All returns a copy of the entries in insertion order.
func (c *Cart) All() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Total returns the sum of the stored effective prices, recomputed from the
// live entry list on every call.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, e := range c.entries {
		sum = sum.Add(e.Effective)
	}
	return sum
}

// Clear removes every entry.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
}
